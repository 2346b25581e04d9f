package docs

import (
	"embed"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerFS embed.FS

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             resolveSwaggerHost(getEnv("SERVER_HOST", "0.0.0.0"), getEnv("SERVER_PORT", "8080")),
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "WireGuard Endpoints API",
	Description:      "Read-only view of WireGuard peer endpoints",
	InfoInstanceName: "swagger",
}

func init() {
	data, err := swaggerFS.ReadFile("swagger.json")
	if err != nil {
		log.Fatalf("failed to load swagger.json: %v", err)
	}
	SwaggerInfo.SwaggerTemplate = string(data)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

func JSONHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, "swagger spec not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// SetHost points the spec at the address the server actually listens on.
// SWAGGER_HOST still takes precedence.
func SetHost(host, port string) {
	SwaggerInfo.Host = resolveSwaggerHost(host, port)
}

func resolveSwaggerHost(host, port string) string {
	if rawHost := getEnv("SWAGGER_HOST", ""); rawHost != "" {
		if strings.Contains(rawHost, ":") {
			return rawHost
		}
		return rawHost + ":" + port
	}
	return host + ":" + port
}
