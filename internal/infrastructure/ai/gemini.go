package ai

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/doeshing/firewatch/internal/domain"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// envelopeSchema requires candidates[0].content.parts[0].text and nothing else.
const envelopeSchema = `{
  "type": "object",
  "required": ["candidates"],
  "properties": {
    "candidates": {
      "type": "array",
      "minItems": 1,
      "items": [{
        "type": "object",
        "required": ["content"],
        "properties": {
          "content": {
            "type": "object",
            "required": ["parts"],
            "properties": {
              "parts": {
                "type": "array",
                "minItems": 1,
                "items": [{
                  "type": "object",
                  "required": ["text"],
                  "properties": {"text": {"type": "string"}}
                }]
              }
            }
          }
        }
      }]
    }
  }
}`

var envelopeLoader = gojsonschema.NewStringLoader(envelopeSchema)

func geminiAdapter() providerAdapter {
	return providerAdapter{
		endpoint:      geminiEndpoint,
		buildRequest:  buildGeminiRequest,
		parseResponse: parseGeminiResponse,
	}
}

func geminiEndpoint(baseURL, model string, cred domain.Credential) string {
	base := strings.TrimRight(valueOrDefault(baseURL, domain.DefaultGeminiBaseURL), "/")
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s", base, url.PathEscape(model), url.QueryEscape(cred.Reveal()))
}

func buildGeminiRequest(prompt string) ([]byte, error) {
	return json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
}

func parseGeminiResponse(body []byte) (string, error) {
	result, err := gojsonschema.Validate(envelopeLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return "", fmt.Errorf("unexpected response envelope: %s", strings.Join(problems, "; "))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("empty completion text")
	}
	return text, nil
}

func setGeminiHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
