package util

// SessionIDKey gin.Context 中保存会话 ID 的键
const SessionIDKey = "session_id"

const (
	MsgFillAllFields  = "Please fill in all fields"
	MsgSessionExpired = "Session error. Please start the test again."
	MsgChooseAnswer   = "Please choose an answer"
)
