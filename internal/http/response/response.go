package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
)

// ErrorBody is the single failure shape every endpoint returns.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondError writes err with the status it carries (500 when none).
func RespondError(c *gin.Context, err error) {
	RespondErrorStatus(c, apierr.StatusOf(err), err)
}

func RespondErrorStatus(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError && err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg})
}

// RespondBindError reports a request that failed to decode or validate as 400.
func RespondBindError(c *gin.Context, err error) {
	RespondErrorStatus(c, http.StatusBadRequest, errors.New(BindMessage(err)))
}

// BindMessage flattens binding and validation failures into one line.
func BindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fieldMessage(fe))
		}
		return strings.Join(parts, "; ")
	}
	if err == nil {
		return "invalid request"
	}
	return "invalid request: " + err.Error()
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of " + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
