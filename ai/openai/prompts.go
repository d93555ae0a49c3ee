package openai

import (
	"fmt"
	"strings"

	"github.com/sefirot-labs/sefirot/ai"
)

const extractionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "category": {
            "type": "string"
          }
        },
        "required": ["text", "category"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `Extract every named entity from the given text and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "text" is the entity's surface string exactly as it appears in the input; do not normalize or rephrase it.
- "category" must be one of: %s.
- List entities in their order of appearance. If the same entity appears twice, list it twice.
- Include only entities that literally appear in the text. Do not hallucinate.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example input:
Alice Johnson met the Acme Corp board in Berlin on March 3rd to discuss the $2M budget.

Example output:
{"entities":[{"text":"Alice Johnson","category":"person"},{"text":"Acme Corp","category":"organization"},{"text":"Berlin","category":"location"},{"text":"March 3rd","category":"date"},{"text":"$2M","category":"money"}]}`

func buildExtractionPrompt() string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema, strings.Join(ai.EntityCategories, ", "))
}
