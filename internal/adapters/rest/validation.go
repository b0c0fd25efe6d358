package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// requireFields rejects requests whose JSON body lacks any of the given keys.
// A key written as "a|b" is satisfied by either name and reported as "a".
func requireFields(fields ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		body := map[string]json.RawMessage{}
		if len(bytes.TrimSpace(raw)) > 0 {
			if err := json.Unmarshal(raw, &body); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
				return
			}
		}

		missing := missingFields(body, fields)
		if len(missing) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": missingFieldsError(missing)})
			return
		}

		c.Next()
	}
}

func missingFields(body map[string]json.RawMessage, fields []string) []string {
	var missing []string
	for _, field := range fields {
		names := strings.Split(field, "|")
		found := false
		for _, name := range names {
			if _, ok := body[name]; ok {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, names[0])
		}
	}
	return missing
}

func missingFieldsError(missing []string) gin.H {
	message := "REQUIRED FIELD IS MISSING"
	verb := "is"
	if len(missing) > 1 {
		message = "REQUIRED FIELDS ARE MISSING"
		verb = "are"
	}

	cause := missing[0]
	if len(missing) > 1 {
		cause = strings.Join(missing[:len(missing)-1], ", ") + " and " + missing[len(missing)-1]
	}

	return gin.H{
		"message": message,
		"cause":   fmt.Sprintf("%s %s not found.", cause, verb),
	}
}

// checkID rejects malformed path ids with "<document> not found"
func checkID(param, document string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": document + " not found"})
			return
		}
		c.Set(param, id)
		c.Next()
	}
}

func pathID(c *gin.Context, param string) uuid.UUID {
	return c.MustGet(param).(uuid.UUID)
}

// registerValidation makes validator errors report json field names
func registerValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the body and writes a 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": bindingMessage(err)})
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "email":
			return fe.Field() + " must be a valid email address"
		case "url":
			return fe.Field() + " must contain valid URLs"
		case "uuid":
			return fe.Field() + " must be a valid id"
		case "gt":
			return fe.Field() + " must be greater than " + fe.Param()
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "invalid request payload"
}
