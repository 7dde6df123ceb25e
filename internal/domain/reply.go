package domain

// Reply is the outcome of a lookup, ready for delivery to the user.
// Exactly one of Text or Document is meaningful, selected by IsDocument.
type Reply struct {
	Text       string
	IsDocument bool
	FileName   string
	Data       []byte
	Caption    string
}

// TextReply builds an inline reply
func TextReply(text string) Reply {
	return Reply{Text: text}
}

// DocumentReply builds a file attachment reply
func DocumentReply(fileName string, data []byte, caption string) Reply {
	return Reply{
		IsDocument: true,
		FileName:   fileName,
		Data:       data,
		Caption:    caption,
	}
}
