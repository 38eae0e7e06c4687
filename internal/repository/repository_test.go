package repository

import (
	"context"
	"envm/internal/config"
	"envm/internal/head"
	"envm/internal/paths"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// newRepository initializes a repository in a fresh temporary directory,
// isolated from the user config of the machine running the tests.
func newRepository(t *testing.T) (context.Context, string) {
	t.Helper()

	oldOverride := paths.ConfigHomeOverride
	paths.ConfigHomeOverride = t.TempDir()
	t.Cleanup(func() { paths.ConfigHomeOverride = oldOverride })

	ctx := context.Background()
	root := t.TempDir()
	if _, err := Init(ctx, root); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return ctx, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func load(t *testing.T, ctx context.Context, root string) *Repository {
	t.Helper()
	repo, err := Load(ctx, root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return repo
}

// snapshot returns the contents of every file under root, keyed by relative path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[rel] = readFile(t, path)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func assertEnvironmentError(t *testing.T, err error, sentinel error, name string) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
	var envErr *EnvironmentError
	if !errors.As(err, &envErr) {
		t.Fatalf("expected an *EnvironmentError, got %T", err)
	}
	if envErr.Name != name {
		t.Errorf("EnvironmentError.Name = %q, want %q", envErr.Name, name)
	}
}

func TestInit(t *testing.T) {
	ctx, root := newRepository(t)

	if !paths.IsRepository(root) {
		t.Fatal("marker directory was not created")
	}
	conf, err := config.Load(paths.GetConfigPath(root))
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	if conf != config.Default() {
		t.Errorf("config = %+v, want defaults", conf)
	}
	current, err := head.Read(paths.GetHeadPath(root))
	if err != nil {
		t.Fatalf("head.Read failed: %v", err)
	}
	if !current.IsLocal() {
		t.Errorf("head = %v, want local", current)
	}

	if _, err := Init(ctx, root); !errors.Is(err, ErrRepositoryAlreadyExists) {
		t.Errorf("expected ErrRepositoryAlreadyExists, got %v", err)
	}
}

func TestInit_UserDefaults(t *testing.T) {
	oldOverride := paths.ConfigHomeOverride
	paths.ConfigHomeOverride = t.TempDir()
	defer func() { paths.ConfigHomeOverride = oldOverride }()

	writeFile(t, paths.GetUserConfigPath(), "pattern = \"env/{}.env\"\n")

	root := t.TempDir()
	if _, err := Init(context.Background(), root); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	conf, err := config.Load(paths.GetConfigPath(root))
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	expected := config.Config{Local: ".env", Pattern: "env/{}.env", Template: ".env.example"}
	if conf != expected {
		t.Errorf("config = %+v, want %+v", conf, expected)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("not a repository", func(t *testing.T) {
		if _, err := Load(context.Background(), t.TempDir()); !errors.Is(err, ErrNotARepository) {
			t.Errorf("expected ErrNotARepository, got %v", err)
		}
	})

	t.Run("missing head", func(t *testing.T) {
		ctx, root := newRepository(t)
		if err := os.Remove(paths.GetHeadPath(root)); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(ctx, root); !errors.Is(err, ErrMissingHeadFile) {
			t.Errorf("expected ErrMissingHeadFile, got %v", err)
		}
	})

	t.Run("missing config", func(t *testing.T) {
		ctx, root := newRepository(t)
		if err := os.Remove(paths.GetConfigPath(root)); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(ctx, root); !errors.Is(err, ErrMissingConfigFile) {
			t.Errorf("expected ErrMissingConfigFile, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		ctx, root := newRepository(t)
		writeFile(t, paths.GetConfigPath(root), "local = ")
		if _, err := Load(ctx, root); !errors.Is(err, ErrFailedToParseConfig) {
			t.Errorf("expected ErrFailedToParseConfig, got %v", err)
		}
	})
}

func TestLocate(t *testing.T) {
	_, root := newRepository(t)

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	found, ok := Locate(nested)
	if !ok {
		t.Fatal("repository not found from a nested directory")
	}
	if found != root {
		t.Errorf("Locate() = %q, want %q", found, root)
	}

	if _, ok := Locate(t.TempDir()); ok {
		t.Error("found a repository in an unrelated directory")
	}
}

func TestSwitchTo_RoundTrip(t *testing.T) {
	ctx, root := newRepository(t)
	localPath := filepath.Join(root, ".env")
	writeFile(t, localPath, "ENV=local\n")
	writeFile(t, filepath.Join(root, ".env.dev"), "ENV=dev\n")

	repo := load(t, ctx, root)
	if err := repo.SwitchTo(ctx, "dev"); err != nil {
		t.Fatalf("SwitchTo(dev) failed: %v", err)
	}

	if got := readFile(t, localPath); got != "ENV=dev\n" {
		t.Errorf("local file = %q, want the dev contents", got)
	}
	if got := readFile(t, paths.GetBackupPath(root)); got != "ENV=local\n" {
		t.Errorf("backup = %q, want the local contents", got)
	}
	if got := load(t, ctx, root).Current(); !got.Equal(head.Parse("dev")) {
		t.Errorf("persisted head = %v, want dev", got)
	}

	assertEnvironmentError(t, repo.SwitchTo(ctx, "dev"), ErrAlreadyUsingTargetEnvironment, "dev")

	if err := repo.SwitchTo(ctx, "local"); err != nil {
		t.Fatalf("SwitchTo(local) failed: %v", err)
	}
	if got := readFile(t, localPath); got != "ENV=local\n" {
		t.Errorf("local file = %q, want the original local contents", got)
	}
	if !repo.Current().IsLocal() {
		t.Errorf("Current() = %v, want local", repo.Current())
	}
}

func TestSwitchTo_BetweenNamedEnvironments(t *testing.T) {
	ctx, root := newRepository(t)
	localPath := filepath.Join(root, ".env")
	writeFile(t, localPath, "ENV=local\n")
	writeFile(t, filepath.Join(root, ".env.dev"), "ENV=dev\n")
	writeFile(t, filepath.Join(root, ".env.staging"), "ENV=staging\n")

	repo := load(t, ctx, root)
	if err := repo.SwitchTo(ctx, "dev"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SwitchTo(ctx, "staging"); err != nil {
		t.Fatalf("SwitchTo(staging) failed: %v", err)
	}

	if got := readFile(t, localPath); got != "ENV=staging\n" {
		t.Errorf("local file = %q, want the staging contents", got)
	}
	if got := readFile(t, paths.GetBackupPath(root)); got != "ENV=local\n" {
		t.Errorf("backup = %q, want it untouched", got)
	}
}

func TestSwitchTo_Errors(t *testing.T) {
	t.Run("missing backup", func(t *testing.T) {
		ctx, root := newRepository(t)
		if err := head.Write(paths.GetHeadPath(root), head.Parse("dev")); err != nil {
			t.Fatal(err)
		}
		repo := load(t, ctx, root)
		if err := repo.SwitchTo(ctx, "local"); !errors.Is(err, ErrMissingBackupEnvironment) {
			t.Errorf("expected ErrMissingBackupEnvironment, got %v", err)
		}
	})

	t.Run("missing target", func(t *testing.T) {
		ctx, root := newRepository(t)
		writeFile(t, filepath.Join(root, ".env"), "ENV=local\n")
		repo := load(t, ctx, root)

		assertEnvironmentError(t, repo.SwitchTo(ctx, "staging"), ErrMissingTargetEnvironment, "staging")
		if !load(t, ctx, root).Current().IsLocal() {
			t.Error("head changed after a failed switch")
		}
	})

	t.Run("missing local file", func(t *testing.T) {
		ctx, root := newRepository(t)
		writeFile(t, filepath.Join(root, ".env.dev"), "ENV=dev\n")
		repo := load(t, ctx, root)

		if err := repo.SwitchTo(ctx, "dev"); !errors.Is(err, ErrFailedToBackupLocalEnvironment) {
			t.Errorf("expected ErrFailedToBackupLocalEnvironment, got %v", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		ctx, root := newRepository(t)
		writeFile(t, filepath.Join(root, ".env"), "ENV=local\n")
		repo := load(t, ctx, root)

		for _, name := range []string{"../outside", "a/b", ".."} {
			if err := repo.SwitchTo(ctx, name); !errors.Is(err, ErrInvalidEnvironmentName) {
				t.Errorf("SwitchTo(%q): expected ErrInvalidEnvironmentName, got %v", name, err)
			}
		}
		if exists(paths.GetBackupPath(root)) {
			t.Error("an invalid name still created the backup")
		}
	})
}

func TestNewEnvironment(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env.example"), "A=\nB=\n")
	repo := load(t, ctx, root)

	if err := repo.NewEnvironment(ctx, "dev"); err != nil {
		t.Fatalf("NewEnvironment(dev) failed: %v", err)
	}
	if got := readFile(t, filepath.Join(root, ".env.dev")); got != "A=\nB=\n" {
		t.Errorf(".env.dev = %q, want the template contents", got)
	}
	assertEnvironmentError(t, repo.NewEnvironment(ctx, "dev"), ErrTargetAlreadyExists, "dev")

	if err := repo.NewEnvironment(ctx, "local"); err != nil {
		t.Fatalf("NewEnvironment(local) failed: %v", err)
	}
	if got := readFile(t, filepath.Join(root, ".env")); got != "A=\nB=\n" {
		t.Errorf(".env = %q, want the template contents", got)
	}
	if !repo.Current().IsLocal() {
		t.Error("NewEnvironment changed the head")
	}
}

func TestNewEnvironment_MissingTemplate(t *testing.T) {
	ctx, root := newRepository(t)
	repo := load(t, ctx, root)

	assertEnvironmentError(t, repo.NewEnvironment(ctx, "dev"), ErrMissingTemplateEnvironment, ".env.example")
	if exists(filepath.Join(root, ".env.dev")) {
		t.Error("target was created without a template")
	}
}

func TestNewEnvironment_PatternFolder(t *testing.T) {
	ctx, root := newRepository(t)
	conf := config.Config{Local: ".env", Pattern: "env/{}.env", Template: ".env.example"}
	if err := config.Store(paths.GetConfigPath(root), conf); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ".env.example"), "A=\n")
	repo := load(t, ctx, root)

	if err := repo.NewEnvironment(ctx, "dev"); err != nil {
		t.Fatalf("NewEnvironment failed: %v", err)
	}
	if !isFile(filepath.Join(root, "env", "dev.env")) {
		t.Error("env/dev.env was not created")
	}

	names, err := repo.ListEnvironments(ctx)
	if err != nil {
		t.Fatalf("ListEnvironments failed: %v", err)
	}
	if !slices.Equal(names, []string{"dev"}) {
		t.Errorf("ListEnvironments() = %v, want [dev]", names)
	}
}

func TestListEnvironments(t *testing.T) {
	ctx, root := newRepository(t)
	for _, name := range []string{".env", ".env.example", ".env.dev", ".env.production", ".env.local", "other.txt", ".env."} {
		writeFile(t, filepath.Join(root, name), "A=1\n")
	}
	if err := os.Mkdir(filepath.Join(root, ".env.folder"), 0755); err != nil {
		t.Fatal(err)
	}
	repo := load(t, ctx, root)

	names, err := repo.ListEnvironments(ctx)
	if err != nil {
		t.Fatalf("ListEnvironments failed: %v", err)
	}
	slices.Sort(names)
	if !slices.Equal(names, []string{"dev", "production"}) {
		t.Errorf("ListEnvironments() = %v, want [dev production]", names)
	}
}

func TestListEnvironments_MissingFolder(t *testing.T) {
	ctx, root := newRepository(t)
	conf := config.Config{Local: ".env", Pattern: "env/{}.env", Template: ".env.example"}
	if err := config.Store(paths.GetConfigPath(root), conf); err != nil {
		t.Fatal(err)
	}
	repo := load(t, ctx, root)

	names, err := repo.ListEnvironments(ctx)
	if err != nil || names != nil {
		t.Errorf("ListEnvironments() = %v, %v; want nothing", names, err)
	}
}

func TestRemoveEnvironment(t *testing.T) {
	ctx, root := newRepository(t)
	devPath := filepath.Join(root, ".env.dev")
	writeFile(t, filepath.Join(root, ".env"), "ENV=local\n")
	writeFile(t, devPath, "ENV=dev\n")
	repo := load(t, ctx, root)

	assertEnvironmentError(t, repo.RemoveEnvironment(ctx, "local"), ErrRemovingUsingEnvironment, "local")

	if err := repo.RemoveEnvironment(ctx, "dev"); err != nil {
		t.Fatalf("RemoveEnvironment(dev) failed: %v", err)
	}
	if exists(devPath) {
		t.Error(".env.dev still exists")
	}
	assertEnvironmentError(t, repo.RemoveEnvironment(ctx, "dev"), ErrMissingTargetEnvironment, "dev")
}

func TestRemoveEnvironment_InUse(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env"), "ENV=local\n")
	writeFile(t, filepath.Join(root, ".env.dev"), "ENV=dev\n")
	repo := load(t, ctx, root)
	if err := repo.SwitchTo(ctx, "dev"); err != nil {
		t.Fatal(err)
	}

	assertEnvironmentError(t, repo.RemoveEnvironment(ctx, "dev"), ErrRemovingUsingEnvironment, "dev")

	// The in-use check comes before the existence check
	if err := os.Remove(filepath.Join(root, ".env.dev")); err != nil {
		t.Fatal(err)
	}
	assertEnvironmentError(t, repo.RemoveEnvironment(ctx, "dev"), ErrRemovingUsingEnvironment, "dev")
}

func TestCompareToTemplate(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env.example"), "A=\nB=\n")
	writeFile(t, filepath.Join(root, ".env.dev"), "A=1\nC=2\n")
	writeFile(t, filepath.Join(root, ".env"), "B=1\nA=2\n")
	repo := load(t, ctx, root)

	missing, extra, err := repo.CompareToTemplate(ctx, "dev")
	if err != nil {
		t.Fatalf("CompareToTemplate failed: %v", err)
	}
	if !slices.Equal(missing, []string{"B"}) || !slices.Equal(extra, []string{"C"}) {
		t.Errorf("got missing=%v extra=%v, want [B] [C]", missing, extra)
	}

	missing, extra, err = repo.CompareToTemplate(ctx, "local")
	if err != nil {
		t.Fatalf("CompareToTemplate(local) failed: %v", err)
	}
	if missing != nil || extra != nil {
		t.Errorf("got missing=%v extra=%v, want nothing", missing, extra)
	}

	_, _, err = repo.CompareToTemplate(ctx, "staging")
	assertEnvironmentError(t, err, ErrMissingTargetEnvironment, "staging")
}

func TestCompareToTemplate_MissingTemplate(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env.dev"), "A=1\n")
	repo := load(t, ctx, root)

	_, _, err := repo.CompareToTemplate(ctx, "dev")
	assertEnvironmentError(t, err, ErrMissingTemplateEnvironment, ".env.example")
}

func TestInvalidNames(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env"), "ENV=local\n")
	writeFile(t, filepath.Join(root, ".env.example"), "ENV=\n")
	writeFile(t, filepath.Join(root, ".env.dev"), "ENV=dev\n")
	repo := load(t, ctx, root)
	if err := repo.SwitchTo(ctx, "dev"); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, root)

	operations := map[string]func(name string) error{
		"SwitchTo":          func(name string) error { return repo.SwitchTo(ctx, name) },
		"NewEnvironment":    func(name string) error { return repo.NewEnvironment(ctx, name) },
		"RemoveEnvironment": func(name string) error { return repo.RemoveEnvironment(ctx, name) },
		"CompareToTemplate": func(name string) error {
			_, _, err := repo.CompareToTemplate(ctx, name)
			return err
		},
	}

	for op, run := range operations {
		for _, name := range []string{"", "  ", "dev/../../x", "../outside", "a/b", ".."} {
			t.Run(op+"/"+name, func(t *testing.T) {
				if err := run(name); !errors.Is(err, ErrInvalidEnvironmentName) {
					t.Errorf("%s(%q): expected ErrInvalidEnvironmentName, got %v", op, name, err)
				}
			})
		}
	}

	if after := snapshot(t, root); !maps.Equal(before, after) {
		t.Errorf("invalid names changed the repository:\nbefore %v\nafter  %v", before, after)
	}
	if name, _ := repo.Current().Name(); name != "dev" {
		t.Errorf("Current() = %v, want dev", repo.Current())
	}
}

func TestCompareToTemplate_ExtensionLikeNames(t *testing.T) {
	ctx, root := newRepository(t)
	writeFile(t, filepath.Join(root, ".env.example"), "A=\nB=\n")
	names := []string{"json", "yaml", "yml", "toml"}
	for _, name := range names {
		writeFile(t, filepath.Join(root, ".env."+name), "A=1\nC=2\n")
	}
	repo := load(t, ctx, root)

	for _, name := range names {
		missing, extra, err := repo.CompareToTemplate(ctx, name)
		if err != nil {
			t.Errorf("CompareToTemplate(%s) failed: %v", name, err)
			continue
		}
		if !slices.Equal(missing, []string{"B"}) || !slices.Equal(extra, []string{"C"}) {
			t.Errorf("CompareToTemplate(%s): got missing=%v extra=%v, want [B] [C]", name, missing, extra)
		}
	}
}

func TestCompareToTemplate_StructuredPattern(t *testing.T) {
	ctx, root := newRepository(t)
	conf := config.Config{Local: ".env", Pattern: "env/{}.yaml", Template: ".env.example"}
	if err := config.Store(paths.GetConfigPath(root), conf); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ".env.example"), "A=\nB=\n")
	writeFile(t, filepath.Join(root, "env", "dev.yaml"), "A: 1\nC:\n  D: 2\n")
	repo := load(t, ctx, root)

	missing, extra, err := repo.CompareToTemplate(ctx, "dev")
	if err != nil {
		t.Fatalf("CompareToTemplate failed: %v", err)
	}
	if !slices.Equal(missing, []string{"B"}) || !slices.Equal(extra, []string{"C.D"}) {
		t.Errorf("got missing=%v extra=%v, want [B] [C.D]", missing, extra)
	}
}
