package llm

// Part es un fragmento de texto dentro de un bloque de contenido.
type Part struct {
	Text string `json:"text"`
}

// Content agrupa las partes de un turno.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateContentRequest es el body de :generateContent.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// GenerateContentResponse es la respuesta exitosa de :generateContent.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// NewTextRequest arma un request de un solo turno con un único texto.
func NewTextRequest(prompt string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}
}

// FirstText devuelve candidates[0].content.parts[0].text; ok es false si
// falta o viene vacío.
func (r *GenerateContentResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	if text == "" {
		return "", false
	}
	return text, true
}
