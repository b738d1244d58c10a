package schemas

import "testing"

func TestChatRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ChatRequest
		wantErr bool
	}{
		{"valid with thread", ChatRequest{Prompt: "hello", ThreadID: "thread_1"}, false},
		{"valid without thread", ChatRequest{Prompt: "hello"}, false},
		{"missing prompt", ChatRequest{ThreadID: "thread_1"}, true},
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

func TestIngestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     IngestRequest
		wantErr bool
	}{
		{"valid", IngestRequest{Documents: []string{"a document"}}, false},
		{"nil documents", IngestRequest{}, true},
		{"empty list", IngestRequest{Documents: []string{}}, true},
		{"empty document", IngestRequest{Documents: []string{""}}, true},
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
