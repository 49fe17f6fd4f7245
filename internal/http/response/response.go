package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lerwix/taler-site/internal/common"
)

// Error writes the coded-error envelope. Internal errors are reported
// generically so storage details never leak to callers.
func Error(c *gin.Context, err error) {
	code := common.CodeOf(err)

	message := err.Error()
	if code == common.CodeInternal || code == common.CodeUnavailable {
		message = "Ошибка сервера"
	}

	body := gin.H{"success": false, "error": message}
	var coded *common.Error
	if errors.As(err, &coded) && len(coded.Fields) > 0 {
		body["fields"] = coded.Fields
	}
	c.AbortWithStatusJSON(statusFor(code), body)
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
