package api

import (
	"net/http" // HTTP status codes
	"reflect"  // Struct tag lookup for validation field names
	"regexp"   // Phone number pattern
	"strings"  // String manipulation
	"sync"     // One-time validator setup
	"unicode"  // Password character classes

	"fangemeinschaft/internal/apperr" // Error classification

	"github.com/cockroachdb/errors"          // Error inspection
	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Request binding
	"github.com/go-playground/validator/v10" // Struct validation
	"github.com/sirupsen/logrus"             // Structured logging
)

var (
	validatorsOnce sync.Once
	phonePattern   = regexp.MustCompile(`^\+?[0-9\s\-()]{8,20}$`)
)

const passwordSpecials = "@$!%*?&"

// registerValidators names validation issues after JSON fields and adds the
// phone and strongpassword tags
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return strongPassword(fl.Field().String())
		})
	})
}

// strongPassword requires a lower and upper case letter, a digit and one of @$!%*?&
func strongPassword(p string) bool {
	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return lower && upper && digit && special
}

// bind decodes the request into req, answering 400 itself on failure
func bind(c *gin.Context, req any) bool {
	err := c.ShouldBind(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   apperr.KindValidation.Title(),
			"details": issuesOf(verrs),
		})
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   apperr.KindValidation.Title(),
		"message": "Invalid request body",
	})
	return false
}

func issuesOf(verrs validator.ValidationErrors) []apperr.Issue {
	issues := make([]apperr.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.Issue{Path: fe.Field(), Message: issueMessage(fe)})
	}
	return issues
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url", "uri":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	case "strongpassword":
		return "must contain an uppercase letter, a lowercase letter, a number and one of " + passwordSpecials
	}
	return "is invalid"
}

// respondError maps err to a status code and JSON body. Details of
// unexpected failures are only logged.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Unexpected error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   apperr.KindInternal.Title(),
			"message": "An unexpected error occurred",
		})
		return
	}

	status := ae.Kind.Status()
	switch ae.Kind {
	case apperr.KindValidation:
		body := gin.H{"error": ae.Kind.Title(), "message": ae.Message}
		if len(ae.Issues) > 0 {
			body["details"] = ae.Issues
		}
		c.AbortWithStatusJSON(status, body)
		return
	case apperr.KindDatabase, apperr.KindInternal:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": ae.Kind.Title(), "message": ae.Message})
}

// wantsJSON reports whether the client asked for JSON rather than a redirect
func wantsJSON(c *gin.Context) bool {
	switch c.GetHeader("Accept") {
	case "", "*/*":
		return c.ContentType() == gin.MIMEJSON
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// respondMutation answers a successful form post with a redirect to the admin
// page, and JSON clients with the record
func respondMutation(c *gin.Context, status int, redirect string, body any) {
	if wantsJSON(c) {
		c.JSON(status, body)
		return
	}
	c.Redirect(http.StatusFound, redirect)
}
