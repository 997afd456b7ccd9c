package schema

// labelsSchema is the embedded labels file schema.
const labelsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Chaos labels file",
  "type": "object",
  "additionalProperties": false,
  "required": ["labels"],
  "properties": {
    "labels": {
      "type": "array",
      "items": {
        "oneOf": [
          { "$ref": "#/$defs/label" },
          { "$ref": "#/$defs/name" }
        ]
      }
    }
  },
  "$defs": {
    "id": {
      "type": "string",
      "pattern": "^[^/.\\s]+$"
    },
    "name": {
      "type": "string",
      "pattern": "^[^/\\n]+$"
    },
    "label": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name"],
      "properties": {
        "id": { "$ref": "#/$defs/id" },
        "name": { "$ref": "#/$defs/name" },
        "desc": { "type": "string" },
        "enabled": { "type": "boolean", "default": true },
        "priority": { "type": "integer", "minimum": 0, "default": 1 },
        "labels": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    }
  }
}`

// categorySchema is the embedded category file schema.
const categorySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Chaos category file",
  "type": "object",
  "additionalProperties": false,
  "required": ["name"],
  "properties": {
    "id": { "$ref": "#/$defs/id" },
    "name": { "$ref": "#/$defs/name" },
    "desc": { "type": "string" },
    "enabled": { "type": "boolean", "default": true },
    "priority": { "type": "integer", "minimum": 0, "default": 1 },
    "labels": {
      "type": "array",
      "items": { "type": "string" }
    },
    "deadline": { "type": "string", "format": "date" }
  },
  "$defs": {
    "id": {
      "type": "string",
      "pattern": "^[^/.\\s]+$"
    },
    "name": {
      "type": "string",
      "pattern": "^[^/\\n]+$"
    }
  }
}`

// taskSchema is the embedded task file schema. The top-level document is
// exactly one of a group task or a workable task; a mapping with subtasks
// is a group.
const taskSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Chaos task file",
  "oneOf": [
    { "$ref": "#/$defs/groupTask" },
    { "$ref": "#/$defs/workableTask" }
  ],
  "$defs": {
    "id": {
      "type": "string",
      "pattern": "^[^/.\\s]+$"
    },
    "name": {
      "type": "string",
      "pattern": "^[^/\\n]+$"
    },
    "date": { "type": "string", "format": "date" },
    "labels": {
      "type": "array",
      "items": { "type": "string" }
    },
    "subtask": {
      "oneOf": [
        { "$ref": "#/$defs/groupTask" },
        { "$ref": "#/$defs/workableTask" },
        { "type": "string" }
      ]
    },
    "groupTask": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name", "subtasks"],
      "properties": {
        "id": { "$ref": "#/$defs/id" },
        "name": { "$ref": "#/$defs/name" },
        "desc": { "type": "string" },
        "enabled": { "type": "boolean", "default": true },
        "priority": { "type": "integer", "minimum": 0, "default": 1 },
        "labels": { "$ref": "#/$defs/labels" },
        "deadline": { "$ref": "#/$defs/date" },
        "subtasks": {
          "type": "array",
          "items": { "$ref": "#/$defs/subtask" }
        }
      }
    },
    "workableTask": {
      "type": "object",
      "additionalProperties": false,
      "required": ["name"],
      "properties": {
        "id": { "$ref": "#/$defs/id" },
        "name": { "$ref": "#/$defs/name" },
        "desc": { "type": "string" },
        "enabled": { "type": "boolean", "default": true },
        "priority": { "type": "integer", "minimum": 0, "default": 1 },
        "labels": { "$ref": "#/$defs/labels" },
        "deadline": { "$ref": "#/$defs/date" },
        "complete": {
          "default": false,
          "oneOf": [
            { "type": "boolean" },
            { "type": "number", "minimum": 0, "maximum": 100 }
          ]
        },
        "next_slot": { "$ref": "#/$defs/date" },
        "last_slot": { "$ref": "#/$defs/date" }
      }
    }
  }
}`
