package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable Engine API",
        "description": "Genetic timetable generation service for university weekly schedules",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetable", "description": "Timetable generation and run retrieval"}
    ],
    "paths": {
        "/timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a weekly timetable",
                "description": "Runs the generation engine over the submitted entities. Residual conflicts are reported on the schedule, not turned into errors.",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Instance exceeds configured limits", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/runs/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Fetch a retained generation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetable/runs/{id}/export": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Download a run as CSV or PDF",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "view", "in": "query", "type": "string", "enum": ["rooms", "lecturers"], "default": "rooms"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "404": {"description": "Run not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "grid": {"$ref": "#/definitions/Grid"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/StudentGroup"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "lecturers": {"type": "array", "items": {"$ref": "#/definitions/Lecturer"}},
                "rooms": {"type": "array", "items": {"$ref": "#/definitions/Room"}},
                "settings": {"$ref": "#/definitions/Settings"}
            },
            "required": ["grid", "groups", "courses", "lecturers", "rooms"]
        },
        "Grid": {
            "type": "object",
            "properties": {
                "days": {"type": "integer"},
                "slotsPerDay": {"type": "integer"}
            },
            "required": ["days", "slotsPerDay"]
        },
        "StudentGroup": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "program": {"type": "string"},
                "level": {"type": "string"},
                "size": {"type": "integer"}
            },
            "required": ["id", "size"]
        },
        "Course": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "name": {"type": "string"},
                "weeklyHours": {"type": "integer"},
                "groups": {"type": "array", "items": {"type": "string"}},
                "roomTypes": {"type": "array", "items": {"type": "string"}},
                "lecturers": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["code", "weeklyHours", "lecturers"]
        },
        "Lecturer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "courses": {"type": "array", "items": {"type": "string"}},
                "unavailable": {"type": "array", "items": {"$ref": "#/definitions/UnavailableSlot"}},
                "maxWeeklyHours": {"type": "integer"}
            },
            "required": ["id"]
        },
        "UnavailableSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "integer"},
                "slot": {"type": "integer"}
            },
            "required": ["day", "slot"]
        },
        "Room": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "capacity": {"type": "integer"},
                "type": {"type": "string"}
            },
            "required": ["id", "capacity"]
        },
        "Settings": {
            "type": "object",
            "properties": {
                "minHours": {"type": "integer"},
                "maxHours": {"type": "integer"},
                "maxCourseDailyHours": {"type": "integer"},
                "maxLecturerDailyHours": {"type": "integer"},
                "populationSize": {"type": "integer"},
                "generations": {"type": "integer"},
                "mutationRate": {"type": "number"},
                "seed": {"type": "integer"},
                "weights": {"$ref": "#/definitions/Weights"}
            }
        },
        "Weights": {
            "type": "object",
            "properties": {
                "workloadBalance": {"type": "number"},
                "gapPenalty": {"type": "number"},
                "roomPreference": {"type": "number"},
                "workloadBounds": {"type": "number"},
                "dailyLoad": {"type": "number"}
            }
        },
        "LecturerStat": {
            "type": "object",
            "properties": {
                "lecturer": {"type": "string"},
                "scheduled_hours": {"type": "integer"},
                "required_hours": {"type": "integer"},
                "status": {"type": "string", "enum": ["complete", "incomplete"]},
                "slots": {"type": "array", "items": {"$ref": "#/definitions/LecturerSlot"}}
            }
        },
        "LecturerSlot": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "slot": {"type": "integer"},
                "module": {"type": "string"},
                "room": {"type": "string"},
                "groups": {"type": "array", "items": {"type": "string"}}
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
