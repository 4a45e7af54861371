package services

import "testing"

func TestAssetIDFromURL(t *testing.T) {
	if got := AssetIDFromURL(BuildAssetURL("asset-1")); got != "asset-1" {
		t.Errorf("got %q", got)
	}
	foreign := []string{
		"",
		"https://cdn.example.com/avatar.png",
		"/media/assets/",
		"/media/assets/asset-1",
		"/media/assets//content",
		"/media/assets/a/b/content",
	}
	for _, url := range foreign {
		if got := AssetIDFromURL(url); got != "" {
			t.Errorf("AssetIDFromURL(%q) = %q, want empty", url, got)
		}
	}
}
