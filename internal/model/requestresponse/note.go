package requestresponse

type NoteRequest struct {
	Title    string `json:"title" example:"Список покупок"`
	Content  string `json:"content" example:"молоко, хлеб"`
	Category string `json:"category" example:"work"`
}

type CreateAttachmentRequest struct {
	Filename string `json:"filename" example:"scan.pdf"`
	MimeType string `json:"mime_type" example:"application/pdf"`
}

// AttachmentResponse : pre-signed URL для загрузки или скачивания вложения
type AttachmentResponse struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	URL      string `json:"url"`
}
