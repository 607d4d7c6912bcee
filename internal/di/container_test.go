package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikey/spam-classifier/internal/adapters/filter"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/ports"
	"github.com/mikey/spam-classifier/internal/text"
)

func writeArtifacts(t *testing.T) (vectorizerPath, classifierPath string) {
	t.Helper()
	dir := t.TempDir()
	vectorizerPath = filepath.Join(dir, "vectorizer.json")
	classifierPath = filepath.Join(dir, "model.json")
	files := map[string]string{
		vectorizerPath: `{"type":"tfidf","vocabulary":{"free":0,"prize":1,"lunch":2},"idf":[1.5,2,1]}`,
		classifierPath: `{"type":"linear","classes":[0,1],"coef":[[2,2,-3]],"intercept":[-0.5]}`,
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return vectorizerPath, classifierPath
}

func TestBuildCLIContainer(t *testing.T) {
	vectorizerPath, classifierPath := writeArtifacts(t)
	container, err := BuildCLIContainer(&CLIFlags{
		VectorizerArtifact: vectorizerPath,
		ClassifierArtifact: classifierPath,
	})
	if err != nil {
		t.Fatalf("BuildCLIContainer: %v", err)
	}

	err = container.Invoke(func(svc *core.ClassifierService, cli *filter.CliFilter) {
		tests := []struct {
			message string
			want    core.State
		}{
			{"Claim your FREE prize", core.StateSpam},
			{"Lunch at noon?", core.StateNotSpam},
			{"\t ", core.StateEmpty},
		}
		for _, tt := range tests {
			v, err := svc.Classify(context.Background(), tt.message)
			if err != nil {
				t.Fatalf("Classify(%q): %v", tt.message, err)
			}
			if v.State() != tt.want {
				t.Errorf("Classify(%q) state = %s, want %s", tt.message, v.State(), tt.want)
			}
		}
		if svc.ModelID() == "" {
			t.Error("expected a model ID")
		}
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestBuildCLIContainer_MissingArtifacts(t *testing.T) {
	container, err := BuildCLIContainer(&CLIFlags{
		VectorizerArtifact: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err != nil {
		t.Fatalf("BuildCLIContainer: %v", err)
	}
	if err := container.Invoke(func(*core.ClassifierService) {}); err == nil {
		t.Error("expected startup to fail without artifacts")
	}
}

func TestBuildNormalizeContainer(t *testing.T) {
	container, err := BuildNormalizeContainer(&CLIFlags{Stemmer: "porter"})
	if err != nil {
		t.Fatal(err)
	}
	err = container.Invoke(func(n *text.Normalizer) {
		if got := n.Normalize("Hello, how are you doing?"); got != "hello" {
			t.Errorf("Normalize = %q, want %q", got, "hello")
		}
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}

func TestBuildContainerWithConfig(t *testing.T) {
	vectorizerPath, classifierPath := writeArtifacts(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "vectorizer:\n  artifact: " + vectorizerPath + "\n" +
		"classifier:\n  artifact: " + classifierPath + "\n" +
		"cache:\n  enabled: true\n  type: memory\n" +
		"server:\n  frontends: [http]\n  http:\n    listen_address: 127.0.0.1:0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	container, err := BuildContainerWithConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	err = container.Invoke(func(svc *core.ClassifierService, filters []ports.MessageFilter) {
		if len(filters) != 1 {
			t.Fatalf("expected one frontend, got %d", len(filters))
		}
		first, err := svc.Classify(context.Background(), "free prize")
		if err != nil {
			t.Fatal(err)
		}
		second, err := svc.Classify(context.Background(), "FREE prize!")
		if err != nil {
			t.Fatal(err)
		}
		if first.Cached || !second.Cached {
			t.Errorf("expected the second verdict to come from the cache: %v %v", first.Cached, second.Cached)
		}
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
}
