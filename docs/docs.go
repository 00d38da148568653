// Package docs registra la especificación OpenAPI de la superficie local del panel.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/router.loginRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Cerrar sesión",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/dashboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Resumen del panel",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dashboard.Overview"}},
                    "303": {"description": "Sin sesión: redirige a /login"}
                }
            }
        },
        "/appointments/future": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Turnos futuros",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/appointments.Row"}}}}
            }
        },
        "/appointments/today": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Turnos de hoy",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/appointments.Row"}}}}
            }
        },
        "/appointments/calendar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Calendario mensual",
                "parameters": [
                    {"type": "integer", "name": "year", "in": "query"},
                    {"type": "integer", "name": "month", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.errorResponse"}}}
            }
        },
        "/appointments/drafts": {
            "post": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Abrir formulario de alta de turno",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/router.draftResponse"}}}
            }
        },
        "/appointments/drafts/{draftID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Estado del formulario",
                "parameters": [{"type": "string", "name": "draftID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/router.draftResponse"}}, "404": {"description": "Not Found"}}
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Editar campos del formulario",
                "parameters": [
                    {"type": "string", "name": "draftID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/router.draftPatchRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/router.draftResponse"}}, "409": {"description": "Conflict"}}
            },
            "delete": {
                "tags": ["appointments"],
                "summary": "Cerrar formulario",
                "parameters": [{"type": "string", "name": "draftID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}
            }
        },
        "/appointments/drafts/{draftID}/submit": {
            "post": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Guardar turno",
                "parameters": [{"type": "string", "name": "draftID", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/router.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/router.errorResponse"}}
                }
            }
        },
        "/appointments/{appointmentID}/drafts": {
            "post": {
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Abrir formulario de edición de turno",
                "parameters": [{"type": "string", "name": "appointmentID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/router.draftResponse"}}, "404": {"description": "Not Found"}}
            }
        },
        "/appointments/{appointmentID}": {
            "delete": {
                "tags": ["appointments"],
                "summary": "Borrar turno",
                "parameters": [{"type": "string", "name": "appointmentID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}, "502": {"description": "Bad Gateway"}}
            }
        },
        "/customers": {
            "get": {"produces": ["application/json"], "tags": ["customers"], "summary": "Listar clientes", "responses": {"200": {"description": "OK"}}},
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["customers"],
                "summary": "Crear cliente",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/customers.Form"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/router.errorResponse"}}}
            }
        },
        "/customers/{customerID}": {
            "patch": {
                "consumes": ["application/json"],
                "tags": ["customers"],
                "summary": "Editar cliente",
                "parameters": [
                    {"type": "string", "name": "customerID", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/customers.Form"}}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["customers"],
                "summary": "Borrar cliente",
                "parameters": [{"type": "string", "name": "customerID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/customers/{customerID}/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Mascotas de un cliente",
                "parameters": [{"type": "string", "name": "customerID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "consumes": ["application/json"],
                "tags": ["pets"],
                "summary": "Crear mascota",
                "parameters": [{"type": "string", "name": "customerID", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Detalle de mascota",
                "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/doctors": {
            "get": {"produces": ["application/json"], "tags": ["doctors"], "summary": "Listar doctores", "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "tags": ["doctors"], "summary": "Crear doctor", "responses": {"201": {"description": "Created"}}}
        },
        "/doctors/{doctorID}": {
            "patch": {
                "tags": ["doctors"],
                "summary": "Editar doctor",
                "parameters": [{"type": "string", "name": "doctorID", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["doctors"],
                "summary": "Borrar doctor",
                "parameters": [{"type": "string", "name": "doctorID", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/users": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["users"],
                "summary": "Crear usuario",
                "description": "Solo para rol admin.",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/router.errorResponse"}}}
            }
        }
    },
    "definitions": {
        "router.loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "router.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}},
                "redirect": {"type": "string"}
            }
        },
        "router.draftResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "view": {"type": "object"}}
        },
        "router.draftPatchRequest": {
            "type": "object",
            "properties": {
                "customer_id": {"type": "string"},
                "pet_id": {"type": "string"},
                "doctor_id": {"type": "string"},
                "date": {"type": "string", "example": "2024-06-01"},
                "time": {"type": "string", "example": "14:30"},
                "diagnosis": {"type": "string"},
                "treatment": {"type": "string"}
            }
        },
        "dashboard.Overview": {
            "type": "object",
            "properties": {"summary": {"type": "object"}, "collections": {"type": "object"}, "user": {"type": "object"}}
        },
        "appointments.Row": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "customer": {"type": "string"},
                "pet": {"type": "string"},
                "doctor": {"type": "string"},
                "diagnosis": {"type": "string"},
                "treatment": {"type": "string"}
            }
        },
        "customers.Form": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PetCheck Dashboard",
	Description:      "Superficie local del panel de la clínica veterinaria.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
