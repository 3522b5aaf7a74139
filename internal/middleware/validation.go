package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/taallocation/internal/app/models/dto"
)

func init() {
	// Report validation failures under the json/form names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// BindJSON binds and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters into obj
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
