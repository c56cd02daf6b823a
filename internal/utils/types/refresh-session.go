package types

type RefreshSession struct {
	UserId   string `json:"user_id"`
	JTI      string `json:"jti"`
	IssueAt  int64  `json:"issue_at"`
	ExpireAt int64  `json:"expire_at"`
	Status   string `json:"status"`
}
