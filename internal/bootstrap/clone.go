package bootstrap

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	apperrors "github.com/ksyq12/dropship/internal/errors"
	"github.com/ksyq12/dropship/internal/logger"
	"github.com/ksyq12/dropship/internal/output"
)

// plainClone is swapped in tests to avoid network access.
var plainClone = git.PlainClone

// CloneApp checks out the application repository into the app directory.
// An existing checkout is kept as-is with a warning; the branch it sits
// on is not verified or switched.
func (p *Provisioner) CloneApp() error {
	if err := os.MkdirAll(p.appDir, 0755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("failed to create %s", p.appDir), err)
	}

	output.Info("Cloning %s (branch %s)...", p.cfg.RepoURL, p.cfg.Branch)
	_, err := plainClone(p.appDir, false, &git.CloneOptions{
		URL:           p.cfg.RepoURL,
		ReferenceName: plumbing.NewBranchReferenceName(p.cfg.Branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		if apperrors.Is(err, git.ErrRepositoryAlreadyExists) {
			output.Warn("Repository already present at %s, keeping existing checkout", p.appDir)
			return nil
		}
		return apperrors.Wrap(apperrors.ErrCodeInstall, fmt.Sprintf("failed to clone %s", p.cfg.RepoURL), err)
	}

	logger.Info("repository cloned to %s", p.appDir)
	return nil
}
