package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Studio Timetable API",
        "description": "Simulated-annealing timetable optimizer for group fitness studios",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Auth", "description": "Operator authentication"},
        {"name": "Runs", "description": "Optimization run lifecycle"},
        {"name": "Exports", "description": "Rendered timetable downloads"},
        {"name": "Roster", "description": "Client and instructor rosters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metric exposition"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange operator credentials for an access token",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs": {
            "post": {
                "tags": ["Runs"],
                "summary": "Queue a new optimization run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartRunRequest"}}
                ],
                "responses": {
                    "202": {"description": "Run queued", "schema": {"$ref": "#/definitions/RunResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Runs"],
                "summary": "List optimization runs",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string", "enum": ["QUEUED", "RUNNING", "COMPLETED", "FAILED", "CANCELED"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Run summaries", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs/{id}": {
            "get": {
                "tags": ["Runs"],
                "summary": "Get one run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Run detail", "schema": {"$ref": "#/definitions/RunResponse"}},
                    "404": {"description": "Unknown run", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Runs"],
                "summary": "Cancel a queued or running run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Run canceled", "schema": {"$ref": "#/definitions/RunResponse"}},
                    "409": {"description": "Run already finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs/{id}/grid": {
            "get": {
                "tags": ["Runs"],
                "summary": "Get the optimized timetable grid",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Assignment grid", "schema": {"$ref": "#/definitions/GridResponse"}},
                    "409": {"description": "Run not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs/{id}/trace": {
            "get": {
                "tags": ["Runs"],
                "summary": "Get the per-iteration cost trace",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Cost trace", "schema": {"$ref": "#/definitions/TraceResponse"}},
                    "404": {"description": "Trace evicted or unknown run", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/runs/{id}/export": {
            "post": {
                "tags": ["Exports"],
                "summary": "Render a completed timetable as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Export ready", "schema": {"$ref": "#/definitions/ExportResponse"}},
                    "409": {"description": "Run not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a rendered timetable by signed token",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/roster": {
            "get": {
                "tags": ["Roster"],
                "summary": "Get the loaded rosters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Clients, instructors and categories", "schema": {"$ref": "#/definitions/RosterResponse"}}
                }
            }
        },
        "/api/v1/roster/reload": {
            "post": {
                "tags": ["Roster"],
                "summary": "Reload the roster CSV files from disk",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Reloaded roster", "schema": {"$ref": "#/definitions/RosterResponse"}},
                    "400": {"description": "Unparseable roster file", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "issuedAt": {"type": "string", "format": "date-time"}
            }
        },
        "StartRunRequest": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "seed": {"type": "integer"},
                "consolidate": {"type": "boolean"},
                "schedule": {"$ref": "#/definitions/ScheduleOverrides"},
                "optimizer": {"$ref": "#/definitions/OptimizerOverrides"}
            }
        },
        "ScheduleOverrides": {
            "type": "object",
            "properties": {
                "classrooms": {"type": "integer"},
                "days": {"type": "integer"},
                "slots": {"type": "integer"},
                "maxParticipants": {"type": "integer"},
                "ticketPrice": {"type": "number"},
                "hourlyPay": {"type": "number"},
                "presenceBonus": {"type": "number"},
                "rentalCost": {"type": "number"}
            }
        },
        "OptimizerOverrides": {
            "type": "object",
            "properties": {
                "alpha": {"type": "number"},
                "initialTemp": {"type": "number"},
                "iterationsPerTemp": {"type": "integer"},
                "minTemp": {"type": "number"},
                "epsilon": {"type": "number"},
                "maxStagnantEpochs": {"type": "integer"},
                "greedyPlacement": {"type": "boolean"}
            }
        },
        "RunResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "label": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "RUNNING", "COMPLETED", "FAILED", "CANCELED"]},
                "initialCost": {"type": "number"},
                "bestCost": {"type": "number"},
                "iterations": {"type": "integer"},
                "error": {"type": "string"},
                "createdAt": {"type": "string", "format": "date-time"},
                "startedAt": {"type": "string", "format": "date-time"},
                "finishedAt": {"type": "string", "format": "date-time"}
            }
        },
        "SlotView": {
            "type": "object",
            "properties": {
                "classroom": {"type": "integer"},
                "day": {"type": "integer"},
                "slot": {"type": "integer"},
                "category": {"type": "string"},
                "categoryOrdinal": {"type": "integer"},
                "instructor": {"type": "integer"},
                "participants": {"type": "array", "items": {"type": "integer"}},
                "headcount": {"type": "integer"}
            }
        },
        "GridResponse": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "classrooms": {"type": "integer"},
                "days": {"type": "integer"},
                "slots": {"type": "integer"},
                "bestCost": {"type": "number"},
                "lessons": {"type": "array", "items": {"$ref": "#/definitions/SlotView"}}
            }
        },
        "TraceResponse": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "iterations": {"type": "integer"},
                "costs": {"type": "array", "items": {"type": "number"}}
            }
        },
        "ExportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            }
        },
        "ExportResponse": {
            "type": "object",
            "properties": {
                "runId": {"type": "string"},
                "format": {"type": "string"},
                "filename": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "RosterResponse": {
            "type": "object",
            "properties": {
                "categories": {"type": "array", "items": {"type": "string"}},
                "clients": {"type": "array", "items": {"$ref": "#/definitions/RosterClientView"}},
                "instructors": {"type": "array", "items": {"$ref": "#/definitions/RosterInstructorView"}}
            }
        },
        "RosterClientView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "wanted": {"type": "array", "items": {"type": "string"}}
            }
        },
        "RosterInstructorView": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "qualified": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
