package credentials

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/quotekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/quotekeeper/internal/common"
	"github.com/dmitrijs2005/quotekeeper/internal/cryptox"
	"github.com/dmitrijs2005/quotekeeper/internal/dbx"
)

// Stored values carry a one-byte format prefix.
const (
	formatPlain  byte = 'p'
	formatSealed byte = 's'
)

// SQLiteStore keeps the credential in the metadata table. With a non-empty
// secret the credential is sealed with a key derived from it; the salt lives
// next to it under its own key.
type SQLiteStore struct {
	db     *sql.DB
	secret []byte

	mu      sync.Mutex
	keySalt []byte
	key     []byte
}

func NewSQLiteStore(db *sql.DB, secret string) *SQLiteStore {
	s := &SQLiteStore{db: db}
	if secret != "" {
		s.secret = []byte(secret)
	}
	return s
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	raw, err := repo.Get(ctx, common.MetadataKeyToken)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case formatPlain:
		return string(raw[1:]), nil
	case formatSealed:
		if s.secret == nil {
			return "", ErrSecretRequired
		}
		salt, err := repo.Get(ctx, common.MetadataKeySalt)
		if err != nil {
			return "", err
		}
		if salt == nil {
			return "", common.ErrSealedDataCorrupted
		}
		plain, err := cryptox.Open(raw[1:], s.keyFor(salt))
		if err != nil {
			return "", fmt.Errorf("open stored credential: %w", err)
		}
		return string(plain), nil
	default:
		return "", common.ErrSealedDataCorrupted
	}
}

// Save replaces the stored credential. The salt is created on first use and
// then reused.
func (s *SQLiteStore) Save(ctx context.Context, credential string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		if s.secret == nil {
			return repo.Set(ctx, common.MetadataKeyToken, append([]byte{formatPlain}, credential...))
		}

		salt, err := repo.Get(ctx, common.MetadataKeySalt)
		if err != nil {
			return err
		}
		if salt == nil {
			salt = cryptox.NewSalt()
			if err := repo.Set(ctx, common.MetadataKeySalt, salt); err != nil {
				return err
			}
		}

		sealed, err := cryptox.Seal([]byte(credential), s.keyFor(salt))
		if err != nil {
			return fmt.Errorf("seal credential: %w", err)
		}
		return repo.Set(ctx, common.MetadataKeyToken, append([]byte{formatSealed}, sealed...))
	})
}

// Clear removes the credential. The salt stays.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, common.MetadataKeyToken)
}

// keyFor caches the derived key; argon2 is deliberately slow and the HTTP
// client loads the credential on every request.
func (s *SQLiteStore) keyFor(salt []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.key != nil && bytes.Equal(s.keySalt, salt) {
		return s.key
	}
	s.key = cryptox.DeriveKey(s.secret, salt)
	s.keySalt = append([]byte(nil), salt...)
	return s.key
}
