package gcs

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{uri: "gs://bucket/tx.csv", wantBucket: "bucket", wantObject: "tx.csv"},
		{uri: "gs://bucket/2024/01/tx.csv", wantBucket: "bucket", wantObject: "2024/01/tx.csv"},
		{uri: "gs://bucket", wantErr: true},
		{uri: "gs://bucket/", wantErr: true},
		{uri: "gs:///tx.csv", wantErr: true},
		{uri: "/tmp/tx.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseURI(%q) expected error", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseURI(%q) unexpected error: %v", tt.uri, err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseURI(%q) = %q, %q; want %q, %q", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
			if got := BuildURI(bucket, object); got != tt.uri {
				t.Errorf("BuildURI = %q, want %q", got, tt.uri)
			}
		})
	}
}

func TestIsURI(t *testing.T) {
	if !IsURI("gs://b/o") {
		t.Error("expected gs:// URI to be recognised")
	}
	if IsURI("transactions.csv") {
		t.Error("expected local path not to be a URI")
	}
}

func TestExtractFilename(t *testing.T) {
	cases := map[string]string{
		"gs://bucket/folder/tx.csv": "tx.csv",
		"gs://bucket/tx.csv":        "tx.csv",
		"gs://bucket":               "bucket",
	}
	for uri, want := range cases {
		if got := ExtractFilename(uri); got != want {
			t.Errorf("ExtractFilename(%q) = %q, want %q", uri, got, want)
		}
	}
}
