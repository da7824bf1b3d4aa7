package model

type SupportMessageRequest struct {
	UserID string `json:"userId" validate:"required,max=64"`
	Text   string `json:"text" validate:"required,max=4000"`
}

// SupportForward is what the operator receives: the message plus the
// correlation token the reply action must echo back.
type SupportForward struct {
	UserID     string `json:"userId"`
	Text       string `json:"text"`
	ReplyToken string `json:"replyToken"`
}

type SupportReplyRequest struct {
	ReplyToken string `json:"replyToken" validate:"required"`
	Text       string `json:"text" validate:"required,max=4000"`
}

// SupportDelivery is the routed reply: target user resolved purely from the
// echoed token.
type SupportDelivery struct {
	UserID string `json:"userId"`
	Text   string `json:"text"`
}
