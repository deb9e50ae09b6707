package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 上传目录前缀
const (
	VoiceAnswerDir = "tests"
	AvatarDir      = "avatars"
)

var (
	// http.DetectContentType 对常见录音格式的识别结果，浏览器录音通常是 webm
	AllowedAudioTypes = []string{"audio/", "video/webm", "application/ogg"}
	AllowedImageTypes = []string{"image/"}
)
