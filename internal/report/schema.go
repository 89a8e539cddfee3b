package report

// Schema is the JSON Schema (Draft 2020-12) for a metrics input file
// as read by "kiviat render" and written by "kiviat collect
// --format=json". The tree is namespace → field → attribute → value;
// names may not contain "/" since metric keys are slash-separated.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/kiviat/metrics.schema.json",
  "title": "Kiviat Metrics Tree",
  "description": "Input schema for kiviat render and output schema for kiviat collect --format=json",
  "type": "object",
  "propertyNames": { "$ref": "#/$defs/Name" },
  "additionalProperties": { "$ref": "#/$defs/Namespace" },
  "$defs": {
    "Name": {
      "type": "string",
      "minLength": 1,
      "pattern": "^[^/]+$"
    },
    "Namespace": {
      "type": "object",
      "description": "Fields of one metric namespace, e.g. std.code.complexity",
      "propertyNames": { "$ref": "#/$defs/Name" },
      "additionalProperties": { "$ref": "#/$defs/Field" }
    },
    "Field": {
      "type": "object",
      "description": "Aggregated attributes of one field, e.g. cyclomatic",
      "propertyNames": { "$ref": "#/$defs/Name" },
      "additionalProperties": { "$ref": "#/$defs/Value" }
    },
    "Value": {
      "description": "Aggregated value (avg, max, total, count). Non-numeric values are read as missing.",
      "type": ["number", "string", "boolean", "null"]
    }
  }
}`

// ReportSchema is the JSON Schema (Draft 2020-12) for the render
// report output. It documents the structure returned by WriteJSON.
const ReportSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/kiviat/report.schema.json",
  "title": "Kiviat Render Report",
  "description": "Output schema for kiviat render --format=json",
  "type": "object",
  "required": ["version", "samples"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "image": {
      "type": "string",
      "description": "Path of the written PNG chart"
    },
    "samples": {
      "type": "array",
      "items": { "$ref": "#/$defs/Sample" }
    }
  },
  "$defs": {
    "Sample": {
      "type": "object",
      "required": ["label", "axes", "outside", "missing"],
      "properties": {
        "label": { "type": "string" },
        "axes": {
          "type": "array",
          "items": { "$ref": "#/$defs/Axis" }
        },
        "outside": { "type": "integer", "minimum": 0 },
        "missing": { "type": "integer", "minimum": 0 }
      }
    },
    "Axis": {
      "type": "object",
      "required": ["title", "value", "radius", "zone", "acceptable_min", "acceptable_max", "limit"],
      "properties": {
        "title": { "type": "string" },
        "value": { "type": "number" },
        "radius": { "type": "number", "minimum": 0 },
        "zone": {
          "type": "string",
          "enum": ["below", "acceptable", "above", "beyond_limit"]
        },
        "acceptable_min": { "type": "number" },
        "acceptable_max": { "type": "number" },
        "limit": { "type": "number" },
        "missing": { "type": "boolean" }
      }
    }
  }
}`
