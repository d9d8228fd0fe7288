package shared

// Task types (asynq)
const (
	TypeDeleteUploadedObject = "upload:delete_object"

	QueueDefault = "default"
	QueueLow     = "low"
)

// DeleteObjectPayload: object trên S3 không còn được project nào tham chiếu.
// URL được worker kiểm tra lại ngay trước khi xóa.
type DeleteObjectPayload struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ProjectID string `json:"projectId"`
}
