package respond

import (
	"regexp"
)

var (
	// データベースパスワードパターン（postgres / mongodb の DSN 内）
	dbPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// Supabase の API キーは JWT 形式
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]{8,}\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// apikey ヘッダーやクエリに含まれたキー
	apiKeyParamPattern = regexp.MustCompile(`(?i)(apikey|api_key)=([^&\s]+)`)
)

// SanitizeError は機密情報をマスクしたエラーメッセージを返す
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()

	msg = jwtPattern.ReplaceAllString(msg, "eyJ****")
	msg = apiKeyParamPattern.ReplaceAllString(msg, "$1=****")

	// DBパスワードのマスク
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
