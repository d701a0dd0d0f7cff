// Package docs registers the OpenAPI document served under /docs.
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
        "/kpi/aggregate": {
            "post": {
                "description": "Builds one monthly summary per posted user. A failing user is reported in its own result and never fails the request.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["KPI"],
                "summary": "Aggregate monthly KPIs",
                "parameters": [
                    {
                        "description": "Aggregation payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/kpi.AggregateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/kpi.AggregateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/sync/monthly": {
            "post": {
                "description": "Aggregates one month of daily records and upserts one summary per user into the record store",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Synchronise monthly summaries",
                "parameters": [
                    {
                        "description": "Sync payload",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/sync.SyncMonthlyRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/sync.SyncMonthlyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reports/monthly": {
            "get": {
                "description": "Returns persisted monthly summaries with totals",
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "List monthly summaries",
                "parameters": [
                    {"type": "string", "description": "Month, YYYY-MM", "name": "year_month", "in": "query"},
                    {"type": "string", "description": "Single user", "name": "user_id", "in": "query"},
                    {"type": "string", "description": "Comma separated users", "name": "user_ids", "in": "query"},
                    {"type": "number", "description": "Minimum completion rate", "name": "min_rate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/reports.MonthlyReportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/reports/monthly/export": {
            "get": {
                "description": "Streams the monthly summaries as an xlsx workbook",
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Reports"],
                "summary": "Export monthly summaries",
                "parameters": [
                    {"type": "string", "description": "Month, YYYY-MM", "name": "year_month", "in": "query"},
                    {"type": "string", "description": "Single user", "name": "user_id", "in": "query"},
                    {"type": "string", "description": "Comma separated users", "name": "user_ids", "in": "query"},
                    {"type": "number", "description": "Minimum completion rate", "name": "min_rate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "kpi.AggregateRequest": {
            "type": "object",
            "required": ["year_month", "users"],
            "properties": {
                "year_month": {"type": "string", "example": "2024-01"},
                "use_calendar_days": {"type": "boolean"},
                "rows_per_day": {"type": "integer", "example": 19},
                "users": {"type": "array", "items": {"$ref": "#/definitions/kpi.UserRecordsItem"}}
            }
        },
        "kpi.UserRecordsItem": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string", "example": "U001"},
                "display_name": {"type": "string", "example": "Alice"},
                "daily_records": {"type": "array", "items": {"$ref": "#/definitions/kpi.DailyRecordItem"}}
            }
        },
        "kpi.DailyRecordItem": {
            "type": "object",
            "required": ["record_date"],
            "properties": {
                "id": {"type": "string"},
                "record_date": {"type": "string", "example": "2024-01-02"},
                "completed": {"type": "boolean"},
                "has_special_notes": {"type": "boolean"},
                "has_incidents": {"type": "boolean"},
                "is_empty": {"type": "boolean"}
            }
        },
        "kpi.AggregateResponse": {
            "type": "object",
            "properties": {
                "year_month": {"type": "string"},
                "failed": {"type": "integer"},
                "results": {"type": "array", "items": {"type": "object"}}
            }
        },
        "sync.SyncMonthlyRequest": {
            "type": "object",
            "required": ["year_month"],
            "properties": {
                "year_month": {"type": "string", "example": "2024-01"},
                "user_ids": {"type": "array", "items": {"type": "string"}},
                "only_changed": {"type": "boolean"}
            }
        },
        "sync.SyncMonthlyResponse": {
            "type": "object",
            "properties": {
                "run_id": {"type": "string"},
                "year_month": {"type": "string"},
                "records": {"type": "integer"},
                "users": {"type": "integer"},
                "created": {"type": "integer"},
                "updated": {"type": "integer"},
                "skipped": {"type": "integer"},
                "unchanged": {"type": "integer"},
                "aggregation_failures": {"type": "array", "items": {"type": "object"}},
                "errors": {"type": "array", "items": {"type": "object"}}
            }
        },
        "reports.MonthlyReportResponse": {
            "type": "object",
            "properties": {
                "year_month": {"type": "string"},
                "totals": {"type": "object"},
                "summaries": {"type": "array", "items": {"type": "object"}}
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
	Title:            "Facility KPI Service API",
	Description:      "Monthly KPI aggregation and idempotent summary synchronisation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
