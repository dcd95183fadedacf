package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/plopper/plopper"
	"github.com/plopper/plopper/internal/domain"
)

// PasteUsecase turns a raw clipboard snapshot into exactly one stored
// item. Pastes are serialized per owner so that insertion order always
// matches paste order, even when a fast classification (image upload)
// overtakes a slow one (metadata fetch).
type PasteUsecase struct {
	items    *ItemUsecase
	resolver *URLResolver
	blobs    BlobStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPasteUsecase(items *ItemUsecase, resolver *URLResolver, blobs BlobStore) *PasteUsecase {
	return &PasteUsecase{
		items:    items,
		resolver: resolver,
		blobs:    blobs,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Paste classifies the snapshot and adds the result to the active user's
// collection. Any failure abandons the paste; nothing is stored.
func (uc *PasteUsecase) Paste(ctx context.Context, snapshot plopper.ClipboardSnapshot) (plopper.Item, error) {
	owner, ok := domain.RequesterID(ctx)
	if !ok {
		return plopper.Item{}, domain.ErrNotAuthenticated
	}

	lock := uc.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	content, err := uc.Classify(ctx, snapshot)
	if err != nil {
		return plopper.Item{}, err
	}

	return uc.items.Add(ctx, content)
}

// Classify produces exactly one PastedContent from the snapshot, or fails.
//
// Plain text that parses as an absolute URL takes precedence over every
// structured payload and is delegated to the URL resolver. Otherwise the
// structured parts are inspected in order: text payloads are merged into
// one Text variant keyed by sub type; the first image payload wins
// outright and ends inspection.
func (uc *PasteUsecase) Classify(ctx context.Context, snapshot plopper.ClipboardSnapshot) (plopper.PastedContent, error) {
	if snapshot.Denied {
		return plopper.PastedContent{}, domain.ErrClipboardUnavailable
	}

	if text := strings.TrimSpace(snapshot.Text); text != "" && plopper.IsAbsoluteURL(text) {
		return uc.resolver.Resolve(ctx, text)
	}

	texts := map[string]string{}
	for _, part := range snapshot.Parts {
		switch part.MainType() {
		case "text":
			texts[part.SubType()] = string(part.Data)
		case "image":
			src, err := uc.blobs.Upload(ctx, part.Type, part.Data)
			if err != nil {
				return plopper.PastedContent{}, err
			}
			return plopper.NewImage(src), nil
		}
	}

	if len(texts) > 0 {
		return plopper.NewText(texts["plain"], texts["html"]), nil
	}

	if snapshot.Text != "" {
		return plopper.NewText(snapshot.Text, ""), nil
	}

	return plopper.PastedContent{}, domain.ErrNoReadableContent
}

func (uc *PasteUsecase) ownerLock(owner string) *sync.Mutex {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	lock, ok := uc.locks[owner]
	if !ok {
		lock = &sync.Mutex{}
		uc.locks[owner] = lock
	}
	return lock
}
