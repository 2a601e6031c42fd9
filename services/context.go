package services

import "github.com/gin-gonic/gin"

const servicesKey = "services"

// SetToContext injects the collaborator bundle into every request context,
// same way the db package injects the gorm handle.
func SetToContext(bundle *Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, bundle)
		c.Next()
	}
}

func Instance(c *gin.Context) *Bundle {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	bundle, _ := v.(*Bundle)
	return bundle
}
