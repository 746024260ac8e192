package api

import "testing"

func TestIsValidContentAssetObjectKey(t *testing.T) {
	valid := []string{
		"content-assets/abc123.png",
		"content-assets/photo.JPG",
		"content-assets/logo.svg",
	}
	for _, key := range valid {
		if !isValidContentAssetObjectKey(key) {
			t.Errorf("expected valid: %q", key)
		}
	}

	invalid := []string{
		"",
		"user-assets/1/a.png",
		"content-assets/../secrets.png",
		"content-assets//double.png",
		"content-assets\\windows.png",
		"content-assets/script.exe",
		"content-assets/noext",
	}
	for _, key := range invalid {
		if isValidContentAssetObjectKey(key) {
			t.Errorf("expected invalid: %q", key)
		}
	}
}
