package models

import (
	"testing"
)

func TestChatRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *ChatRequest
		wantErr bool
	}{
		{"empty question", &ChatRequest{Question: ""}, true},
		{"blank question", &ChatRequest{Question: "  \t"}, true},
		{"valid question", &ChatRequest{Question: "Show batch release status by line"}, false},
		{"gibberish is still a question", &ChatRequest{Question: "asdkjasdlk"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
