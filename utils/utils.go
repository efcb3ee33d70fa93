package utils

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"freight-admin/types"

	"github.com/gofiber/fiber/v2"
)

const (
	trackingAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TrackingCodeLength = 12
)

// GenerateTrackingCode returns a random code of uppercase letters and digits.
func GenerateTrackingCode() (string, error) {
	var sb strings.Builder
	sb.Grow(TrackingCodeLength)
	max := big.NewInt(int64(len(trackingAlphabet)))
	for i := 0; i < TrackingCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate tracking code: %w", err)
		}
		sb.WriteByte(trackingAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// IsTrackingCode reports whether s has the shape of a tracking code.
func IsTrackingCode(s string) bool {
	if len(s) != TrackingCodeLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(trackingAlphabet, r) {
			return false
		}
	}
	return true
}

// sanitizeRequestBody strips file content from uploads and large payloads
func sanitizeRequestBody(c *fiber.Ctx) string {
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		formData := make(map[string]interface{})

		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0]
				}
			}
			for key, files := range form.File {
				fileInfo := make([]map[string]interface{}, len(files))
				for i, file := range files {
					fileInfo[i] = map[string]interface{}{
						"filename": file.Filename,
						"size":     file.Size,
						"content":  "[FILE_CONTENT_REMOVED]",
					}
				}
				formData[key] = fileInfo
			}
		}

		if jsonBytes, err := json.Marshal(formData); err == nil {
			return string(jsonBytes)
		}
		return "[MULTIPART_FORM_DATA]"
	}

	body := string(c.Body())
	if len(body) > 1000 && (strings.Contains(body, "data:image/") ||
		strings.Contains(body, "base64") ||
		isLikelyBase64(body)) {
		return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
	}
	return body
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}
	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry copies the request and response of c into a log
// entry that outlives the fiber context.
func CreateSanitizedLogEntry(c *fiber.Ctx, principalID string) types.LogEntry {
	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          string([]byte(c.Method())),
		URL:             string([]byte(c.OriginalURL())),
		RequestBody:     sanitizeRequestBody(c),
		ResponseBody:    string(append([]byte(nil), c.Response().Body()...)),
		RequestHeaders:  redactAuthorization(string(requestHeaders)),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		PrincipalID:     principalID,
		CreatedAt:       time.Now(),
	}
}

// redactAuthorization hides bearer tokens in a raw header block.
func redactAuthorization(headers string) string {
	lines := strings.Split(headers, "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}
