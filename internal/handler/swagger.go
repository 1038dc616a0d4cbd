package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/huddle/huddle-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// DocsHandler serves the generated API description
type DocsHandler struct {
	servers []Server
}

// NewDocsHandler creates a DocsHandler advertising the given public base
// URL next to the local development server.
func NewDocsHandler(publicURL string) *DocsHandler {
	servers := []Server{{URL: "http://localhost:8080/api/v1", Description: "Local Development"}}
	if publicURL = strings.TrimRight(publicURL, "/"); publicURL != "" {
		servers = append(servers, Server{URL: publicURL + "/api/v1", Description: "Production"})
	}
	return &DocsHandler{servers: servers}
}

// transformRefs recursively rewrites $ref from #/definitions/ to
// #/components/schemas/ and converts Swagger 2.0 operations and parameters
// to their OpenAPI 3.0 form.
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		// Parameter object
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}
		// Operation object
		if params, ok := v["parameters"].([]interface{}); ok {
			if _, isOp := v["responses"]; isOp {
				return transformOperation(v, params)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if key == "$ref" {
				if ref, ok := value.(string); ok {
					result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
					continue
				}
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformOperation moves a Swagger 2.0 body parameter into requestBody
func transformOperation(op map[string]interface{}, params []interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(op))
	for key, value := range op {
		if key == "parameters" || key == "consumes" || key == "produces" {
			continue
		}
		result[key] = transformRefs(value)
	}

	var rest []interface{}
	for _, p := range params {
		param, ok := p.(map[string]interface{})
		if !ok || param["in"] != "body" {
			rest = append(rest, transformRefs(p))
			continue
		}
		body := map[string]interface{}{
			"content": map[string]interface{}{
				"application/json": map[string]interface{}{
					"schema": transformRefs(param["schema"]),
				},
			},
		}
		if required, ok := param["required"]; ok {
			body["required"] = required
		}
		if description, ok := param["description"]; ok {
			body["description"] = description
		}
		result["requestBody"] = body
	}
	if len(rest) > 0 {
		result["parameters"] = rest
	}
	return result
}

// transformParameter converts a Swagger 2.0 parameter to OpenAPI 3.0 format
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			if field == "items" {
				schema[field] = transformRefs(val)
			} else {
				schema[field] = val
			}
		}
	}

	if len(schema) > 0 {
		result["schema"] = schema
	}

	return result
}

// ServeOpenAPI3Spec handles GET /openapi.json
func (h *DocsHandler) ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return NewInternalError(c, "Failed to read swagger doc")
	}

	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})
	transformedPaths, _ := transformRefs(paths).(map[string]interface{})

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return c.JSON(http.StatusOK, OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    h.servers,
		Paths:      transformedPaths,
		Components: components,
	})
}
