package strcase

import "testing"

func TestToLowerSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "Password", want: "password"},
		{in: "OtpCode", want: "otp_code"},
		{in: "UserID", want: "user_id"},
		{in: "HTTPServer", want: "http_server"},
		{in: "BackupCodesRemaining", want: "backup_codes_remaining"},
		{in: "already_snake", want: "already_snake"},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := ToLowerSnake(tc.in); got != tc.want {
				t.Fatalf("ToLowerSnake(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
