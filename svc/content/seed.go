package content

import (
	"context"
	"embed"
	"fmt"
)

//go:embed seed/*.md
var seedFS embed.FS

// seedPages are the demo pages installed by Seed. Bodies live in seed/<slug>.md.
var seedPages = []Page{
	{Slug: "welcome", Title: "Добро пожаловать", Excerpt: "Введение в базу знаний", Access: AccessPublic, Sort: 0},
	{Slug: "getting-started", Title: "Начало работы", Excerpt: "Как развернуть и наполнить приложение", Access: AccessPublic, Sort: 1},
	{Slug: "premium-content", Title: "Премиум контент", Excerpt: "Эксклюзивные материалы для подписчиков", Access: AccessPremium, Sort: 2},
}

// Seed upserts the demo pages and returns them as stored. It is idempotent.
func Seed(ctx context.Context, store Store) ([]Page, error) {
	saved := make([]Page, 0, len(seedPages))
	for _, p := range seedPages {
		body, err := seedFS.ReadFile("seed/" + p.Slug + ".md")
		if err != nil {
			return nil, fmt.Errorf("content: read seed %s: %w", p.Slug, err)
		}
		p.ContentMD = string(body)
		p.Status = StatusPublished

		stored, err := store.UpsertPage(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("content: seed %s: %w", p.Slug, err)
		}
		saved = append(saved, stored)
	}
	return saved, nil
}
