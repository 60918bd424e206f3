package skemafile

// Package skemafile persists schema-validated values to text files with
// explicit version migration.
//
// - A Store[T] orchestrates read -> parse -> version extraction -> migration ->
//   validation on load, and encode -> version tagging -> stringify -> write on save.
// - Migration chains are validated at construction: steps must form a contiguous
//   1..version-1 sequence or New fails immediately.
// - A stable error model via Error (kind, message, wrapped cause).
// - Serializers are injected capabilities; JSON/YAML/TOML/JWCC adapters live
//   under format/.
//
// Design policy:
// - Keep only public APIs in the root package; put format adapters under format/,
//   the goskema bridge under goskemabind/, and the CLI under cmd/skemafile.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	store, err := skemafile.New(skemafile.Config[Prefs]{
//		Schema:     goskemabind.Schema(prefsSchema),
//		Version:    2,
//		Migrations: []skemafile.Migration{v1toV2},
//		Serializer: json.New(),
//	})
//	prefs, err := store.Load(ctx, path)
//	err = store.Save(ctx, prefs, path)
