package main

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The API contract is maintained by hand in docs/openapi.json and compiled
// into the binary, so /docs needs no filesystem at runtime.
//
//go:embed docs/openapi.json
var openAPISpec []byte

// swaggerPage loads the standard Swagger UI assets and points them at the
// served spec, the same surface the interactive docs have always had.
const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Ecommerce API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      SwaggerUIBundle({ url: "/docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>`

func setupDocsRoutes(r *gin.Engine) {
	docs := r.Group("/docs")
	docs.GET("", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
	})
	docs.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPISpec)
	})
}
