package models

// InboundMessage is what the webhook collaborator supplies per message.
type InboundMessage struct {
	Text             string `json:"text"`
	SenderID         string `json:"sender_id" validate:"required"`
	SenderName       string `json:"sender_name,omitempty"`
	MessageID        string `json:"message_id,omitempty"`
	MediaCount       int    `json:"media_count,omitempty"`
	MediaURL         string `json:"media_url,omitempty"`
	MediaContentType string `json:"media_content_type,omitempty"`
}

type ResponseKind string

const (
	ResponseKindText  ResponseKind = "text"
	ResponseKindMedia ResponseKind = "media"
)

// Response is the descriptor the router returns and the webhook collaborator
// renders into its own wire format.
type Response struct {
	Kind     ResponseKind `json:"kind"`
	Content  string       `json:"content"`
	MediaURL string       `json:"media_url,omitempty"`
}

func TextResponse(content string) *Response {
	return &Response{Kind: ResponseKindText, Content: content}
}

func MediaResponse(content, mediaURL string) *Response {
	return &Response{Kind: ResponseKindMedia, Content: content, MediaURL: mediaURL}
}

// SendMessageRequest is the direct-send API payload (outside the webhook
// reply path).
type SendMessageRequest struct {
	To       string `json:"to" validate:"required"`
	Text     string `json:"text" validate:"required"`
	MediaURL string `json:"media_url,omitempty"`
}

// SendMessageResponse carries the provider delivery receipt id.
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
}
