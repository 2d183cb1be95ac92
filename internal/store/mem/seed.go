package mem

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fincore.org/internal/identity"
)

// Demo fixtures so the console app is usable out of the box.
var demoFixtures = []struct {
	id       string
	username string
	kind     identity.Kind
	first    string
	last     string
	secret   string
}{
	{"e29b41d4-e89b-12d3-a456-426614174000", "TestCustA", identity.KindIndividual, "John", "Test", "Pa55word!!123$1"},
	{"e29b41d4-e89b-12d3-a456-426614174001", "TestCustB", identity.KindIndividual, "Mary", "Testing", "Pa55word!!123$2"},
	{"e29b41d4-e89b-12d3-a456-426614174002", "TestBusiness", identity.KindOrganization, "", "", "Pa55word!!123$3"},
}

// SeedDemo loads the demo identities. Secrets pass through hash, so the
// fixtures work under any configured secret scheme.
func SeedDemo(ctx context.Context, s *Store, hash func(string) (string, error)) error {
	for _, f := range demoFixtures {
		id := uuid.MustParse(f.id)
		ident := &identity.Identity{
			ID:        id,
			Username:  f.username,
			Kind:      f.kind,
			CreatedAt: time.Now().UTC(),
			FirstName: f.first,
			LastName:  f.last,
			Account:   identity.NewAccount(),
		}
		if f.kind == identity.KindOrganization {
			ident.Name = f.username
		}
		secret, err := hash(f.secret)
		if err != nil {
			return err
		}
		if err := s.SaveNew(ctx, &identity.Credential{ID: id, Secret: secret}, ident); err != nil {
			return err
		}
	}
	return nil
}
