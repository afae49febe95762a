package api

type Session struct {
	ID string `json:"id"`

	Style string `json:"style,omitempty"`
	Hint  string `json:"hint,omitempty"`

	Description string `json:"description,omitempty"`

	HasSketch bool `json:"has_sketch"`
	HasImage  bool `json:"has_image"`

	Busy bool `json:"busy"`
}

type SessionOptions struct {
	Style *string `json:"style,omitempty"`
	Hint  *string `json:"hint,omitempty"`
}

type Description struct {
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}
