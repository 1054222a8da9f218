package api

import (
	"io"       // Upload reading
	"net/http" // HTTP status codes
	"strconv"  // Content-Length
	"strings"  // Header parsing

	"fangemeinschaft/internal/apperr" // Error classification
	"fangemeinschaft/internal/domain" // Importing domain models
	"fangemeinschaft/internal/store"  // Data access

	"github.com/gabriel-vasile/mimetype" // Content sniffing
	"github.com/gin-gonic/gin"           // Gin web framework
)

// MaxAssetSize is the largest accepted upload
const MaxAssetSize = 10 << 20

// assetCacheControl lets browsers keep assets for a year; ids never change content
const assetCacheControl = "public, max-age=31536000"

// AssetResponse adds the serving URL to an asset
type AssetResponse struct {
	domain.Asset
	URL string `json:"url"`
}

// ListAssetsHandler returns asset metadata without the binary content
func ListAssetsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		assets, err := s.Assets.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		resp := make([]AssetResponse, len(assets))
		for i, a := range assets {
			resp[i] = AssetResponse{Asset: a, URL: a.URL()}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UploadAssetHandler stores a multipart upload in the database
func UploadAssetHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			respondError(c, apperr.Validation("Invalid upload", apperr.Issue{Path: "file", Message: "is required"}))
			return
		}
		if fh.Size > MaxAssetSize {
			respondError(c, apperr.Validation("Invalid upload", apperr.Issue{Path: "file", Message: "must be at most 10 MB"}))
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, MaxAssetSize+1))
		if err != nil {
			respondError(c, err)
			return
		}
		if len(data) > MaxAssetSize {
			respondError(c, apperr.Validation("Invalid upload", apperr.Issue{Path: "file", Message: "must be at most 10 MB"}))
			return
		}

		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			name = fh.Filename // Fall back to the client file name
		}
		mime := fh.Header.Get("Content-Type")
		if mime == "" || mime == "application/octet-stream" {
			mime = mimetype.Detect(data).String() // Sniff when the browser did not say
		}
		asset := &domain.Asset{Name: name, Data: data, MimeType: mime, Size: int64(len(data))}
		if err := s.Assets.Create(c.Request.Context(), asset); err != nil {
			respondError(c, err)
			return
		}
		respondMutation(c, http.StatusCreated, "/admin/assets", AssetResponse{Asset: *asset, URL: asset.URL()})
	}
}

// ServeAssetHandler streams an asset with caching headers
func ServeAssetHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		asset, err := s.Assets.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		etag := `"` + asset.ID + `"` // Asset content never changes under an id
		c.Header("Cache-Control", assetCacheControl)
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("Content-Length", strconv.Itoa(len(asset.Data)))
		c.Header("Last-Modified", asset.UpdatedAt.UTC().Format(http.TimeFormat))
		c.Data(http.StatusOK, asset.MimeType, asset.Data)
	}
}
