package skills

import "github.com/skillbox/skillbox/internal/schema"

// Factory constructs one skill. The catalog being built is passed in so
// that core skills (menu, module loader) can inspect their siblings.
type Factory func(c Catalog) (schema.Skill, error)

// Static wraps an already constructed skill as a Factory.
func Static(s schema.Skill) Factory {
	return func(Catalog) (schema.Skill, error) { return s, nil }
}

type entry struct {
	category schema.Category
	factory  Factory
}

// RegistryBuilder accumulates skill factories during the construction phase.
// Registration order matters: on a keyword collision the later entry wins.
type RegistryBuilder struct {
	entries []entry
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithCore registers bundled system skills.
func (b *RegistryBuilder) WithCore(fs ...Factory) *RegistryBuilder {
	return b.with(schema.CategoryCore, fs)
}

// WithExtension registers user-added skills.
func (b *RegistryBuilder) WithExtension(fs ...Factory) *RegistryBuilder {
	return b.with(schema.CategoryExtension, fs)
}

func (b *RegistryBuilder) with(cat schema.Category, fs []Factory) *RegistryBuilder {
	for _, f := range fs {
		b.entries = append(b.entries, entry{category: cat, factory: f})
	}
	return b
}

// Build produces a Registry and runs the first discovery pass.
// Skills that fail to load are logged and left out.
func (b *RegistryBuilder) Build() *Registry {
	entries := make([]entry, len(b.entries))
	copy(entries, b.entries)

	r := &Registry{entries: entries}
	_ = r.Reload()
	return r
}
