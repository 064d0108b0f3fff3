package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reader.yaml")
	data := `favorite_genres:
  - Fantasy
  - Mystery
bio: loves dragons
vibes: [cozy]
reading_pace: slow
reading_history:
  - title: Dracula
    author: Bram Stoker
    rating: 4.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if len(profile.FavoriteGenres) != 2 || profile.FavoriteGenres[1] != "Mystery" {
		t.Errorf("Unexpected genres %v", profile.FavoriteGenres)
	}
	if profile.Bio != "loves dragons" || profile.ReadingPace != "slow" {
		t.Errorf("Unexpected profile %+v", profile)
	}
	if len(profile.ReadingHistory) != 1 || profile.ReadingHistory[0].Rating != 4.5 {
		t.Errorf("Unexpected history %+v", profile.ReadingHistory)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	if _, err := LoadProfile("/nonexistent/reader.yaml"); err == nil {
		t.Error("Expected error for missing file, got nil")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("favorite_genres: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to create profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}
