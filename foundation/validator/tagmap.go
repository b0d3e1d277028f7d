package validator

var tagMap = map[string]string{
	"required": "required",
	"email":    "invalid_email",
	"url":      "invalid_url",
	"http_url": "invalid_http_url",
	"max":      "too_long",
	"min":      "too_short",
	"gte":      "too_small_or_equal",
	"lte":      "too_large_or_equal",
	"oneof":    "invalid_choice",
	"filepath": "invalid_path",
}

func mapTagToCode(tag string) string {
	if code, ok := tagMap[tag]; ok {
		return code
	}
	return "invalid"
}
