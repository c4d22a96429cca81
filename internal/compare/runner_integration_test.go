package compare

import (
	"context"
	"os/exec"
	"reflect"
	"testing"

	"github.com/masmgr/cmpbranch-go/internal/git"
	"github.com/masmgr/cmpbranch-go/internal/gittest"
)

// backportRepo mimics a maintenance branch that received a few backports:
//
//	master:  c0 -- m1 Fix bug (Alice@100) -- m2 Add X (Bob@200) -- m3 Tune (Carol@300)
//	stable:  c0 -- s1 Fix bug (Alice@100) -- s2 Add X and Y (Bob@200) -- s3 Tune (Carol@350) -- s4 Local (Dave@400)
func backportRepo(t *testing.T) *gittest.Repo {
	t.Helper()
	repo := gittest.New(t)
	repo.Write("README", "base\n")
	repo.Commit("Initial", gittest.At("Root", 10))

	repo.Branch("stable")
	repo.Checkout("master")
	repo.Write("src/bug.c", "fixed\n")
	repo.Commit("Fix bug", gittest.At("Alice", 100))
	repo.Write("src/x.c", "x\n")
	repo.Commit("Add X", gittest.At("Bob", 200))
	repo.Write("docs/tune.txt", "tune\n")
	repo.Commit("Tune", gittest.At("Carol", 300))

	repo.Checkout("stable")
	repo.Write("src/bug.c", "fixed\n")
	repo.Commit("Fix bug", gittest.At("Alice", 100), gittest.At("Maint", 500))
	repo.Write("src/x.c", "x\ny\n")
	repo.Commit("Add X and Y", gittest.At("Bob", 200), gittest.At("Maint", 510))
	repo.Write("docs/tune.txt", "tune\n")
	repo.Commit("Tune", gittest.At("Carol", 350), gittest.At("Maint", 520))
	repo.Write("docs/local.txt", "local\n")
	repo.Commit("Local", gittest.At("Dave", 400), gittest.At("Maint", 530))
	return repo
}

func openBackends(t *testing.T, dir string) map[string]git.HistoryAccessor {
	t.Helper()
	out := make(map[string]git.HistoryAccessor)
	native, err := git.Open(git.OpenOptions{RepoPath: dir, Backend: git.BackendNative})
	if err != nil {
		t.Fatalf("Open native: %v", err)
	}
	out["native"] = native
	if _, err := exec.LookPath("git"); err == nil {
		cli, err := git.Open(git.OpenOptions{RepoPath: dir, Backend: git.BackendGitCLI})
		if err != nil {
			t.Fatalf("Open gitcli: %v", err)
		}
		out["gitcli"] = cli
	}
	return out
}

func subjectsOf(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Commit.Subject()
	}
	return out
}

func TestRunner_Repository(t *testing.T) {
	repo := backportRepo(t)

	for name, acc := range openBackends(t, repo.Dir) {
		t.Run(name, func(t *testing.T) {
			pair, err := NewRunner(acc).Compare(context.Background(), "stable", "master", Options{})
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			wantSubjects := []string{"Local", "Tune", "Add X and Y", "Fix bug"}
			wantTiers := []Tier{TierUnmatched, TierMessage, TierTimestamp, TierExact}
			if got := subjectsOf(pair.Records); !reflect.DeepEqual(got, wantSubjects) {
				t.Errorf("subjects = %v, want %v", got, wantSubjects)
			}
			if got := tiersOf(pair.Records); !reflect.DeepEqual(got, wantTiers) {
				t.Errorf("tiers = %v, want %v", got, wantTiers)
			}
			if alt := pair.Records[2].Alternate; alt == nil || alt.Subject != "Add X" {
				t.Errorf("alternate = %+v, want Add X", alt)
			}
		})
	}
}

func TestRunner_RepositoryPaths(t *testing.T) {
	repo := backportRepo(t)

	for name, acc := range openBackends(t, repo.Dir) {
		t.Run(name, func(t *testing.T) {
			pair, err := NewRunner(acc).Compare(context.Background(), "stable", "master",
				Options{Paths: []string{"docs/"}})
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if got := subjectsOf(pair.Records); !reflect.DeepEqual(got, []string{"Local", "Tune"}) {
				t.Errorf("subjects = %v", got)
			}
		})
	}
}
