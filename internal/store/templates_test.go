package store

import (
	"context"
	"testing"

	"github.com/telebridge/botstore/internal/model"
)

func TestStoreTemplateDefaultDemotion(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if s.StoreTemplate(ctx, -100, model.Template{Name: "noname"}) {
		t.Fatal("template without type accepted")
	}

	if !s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting", Content: "Hi!", IsDefault: true}) {
		t.Fatal("StoreTemplate failed")
	}
	// A second default of the same type demotes the first.
	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-b", Type: "greeting", Content: "Hello!", IsDefault: true})

	def, ok := s.GetDefaultTemplate(ctx, -100, "greeting")
	if !ok || def.Name != "greet-b" {
		t.Fatalf("default = %+v, %v", def, ok)
	}

	defaults := 0
	for _, tpl := range s.GetTemplatesForGroup(ctx, -100) {
		if tpl.Type == "greeting" && tpl.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("greeting defaults = %d, want 1", defaults)
	}
}

func TestStoreTemplateReplaceClearsDefault(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting", Content: "Hi!", IsDefault: true})
	// Updating the content unsets the default until re-promoted.
	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting", Content: "Hi v2!", IsDefault: true})

	if _, ok := s.GetDefaultTemplate(ctx, -100, "greeting"); ok {
		t.Fatal("replaced template kept its default flag")
	}

	if !s.SetDefaultTemplate(ctx, -100, "greeting", "greet-a") {
		t.Fatal("SetDefaultTemplate failed")
	}
	def, ok := s.GetDefaultTemplate(ctx, -100, "greeting")
	if !ok || def.Content != "Hi v2!" {
		t.Fatalf("default after promotion = %+v, %v", def, ok)
	}
}

func TestSetDefaultTemplateAbsent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting", Content: "Hi!"})
	if s.SetDefaultTemplate(ctx, -100, "greeting", "missing") {
		t.Fatal("promotion of absent template succeeded")
	}
}

func TestDefaultsAreIndependentPerType(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting", IsDefault: true})
	s.StoreTemplate(ctx, -100, model.Template{Name: "close-a", Type: "closing", IsDefault: true})

	if def, ok := s.GetDefaultTemplate(ctx, -100, "greeting"); !ok || def.Name != "greet-a" {
		t.Fatalf("greeting default = %+v, %v", def, ok)
	}
	if def, ok := s.GetDefaultTemplate(ctx, -100, "closing"); !ok || def.Name != "close-a" {
		t.Fatalf("closing default = %+v, %v", def, ok)
	}
}

func TestDeleteTemplate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting"})
	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-b", Type: "greeting"})

	if !s.DeleteTemplate(ctx, -100, "greeting", "greet-a") {
		t.Fatal("DeleteTemplate failed")
	}
	if s.DeleteTemplate(ctx, -100, "greeting", "greet-a") {
		t.Fatal("second delete of the same template succeeded")
	}

	left := s.GetTemplatesForGroup(ctx, -100)
	if len(left) != 1 || left[0].Name != "greet-b" {
		t.Fatalf("templates after delete = %+v", left)
	}
}

func TestTemplatesAreScopedPerGroup(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.StoreTemplate(ctx, -100, model.Template{Name: "greet-a", Type: "greeting"})
	if got := s.GetTemplatesForGroup(ctx, -200); len(got) != 0 {
		t.Fatalf("templates leaked across groups: %+v", got)
	}
}
