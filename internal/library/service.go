package library

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/stash/internal/logger"
)

// ImportConcurrency bounds how many previews an import resolves at once.
const ImportConcurrency = 4

// Service implements the saved-links library on top of a Repository.
// Every operation is scoped to the acting user.
type Service struct {
	repo     Repository
	resolver PreviewResolver
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
}

func New(repo Repository, res PreviewResolver, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: res,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// newSlug returns an unguessable share token.
func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
