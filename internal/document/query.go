package document

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduvault/service/internal/entity"
)

// ListDocuments returns list projections across one entity kind or all of
// them. classID "all" disables class filtering; q is a case-insensitive
// match on the kind's name and url fields. Logically deleted documents are
// excluded. Results are sorted by last_updated descending.
func (s *Service) ListDocuments(ctx context.Context, classID, typeName, q string, limit int64) ([]*ListItem, error) {
	classNorm := strings.ToLower(strings.TrimSpace(classID))
	typeNorm := strings.ToLower(strings.TrimSpace(typeName))
	q = strings.TrimSpace(q)

	var kinds []string
	switch {
	case typeNorm == "all":
		kinds = entity.Kinds()
	case entity.Valid(typeNorm):
		kinds = []string{typeNorm}
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, typeName)
	}

	items := make([]*ListItem, 0)

	for _, kind := range kinds {
		filter := bson.M{
			"type_name": kind,
			"status":    bson.M{"$ne": "deleted"},
		}
		if classNorm != "all" {
			filter["class_id"] = strings.TrimSpace(classID)
		}
		if q != "" {
			filter["$or"] = bson.A{
				bson.M{entity.NameKey(kind): bson.M{"$regex": q, "$options": "i"}},
				bson.M{entity.URLKey(kind): bson.M{"$regex": q, "$options": "i"}},
			}
		}

		coll := s.db.Collection(entity.Collection(kind))
		cursor, err := coll.Find(ctx, filter, options.Find().
			SetSort(bson.D{{Key: "updated_at", Value: -1}}).
			SetLimit(limit))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}

		var docs []bson.M
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}

		for _, doc := range docs {
			item := s.BuildListItem(ctx, doc, kind)
			if item == nil {
				continue
			}
			// Mark the kind so clients can tell items apart when type_name=all.
			item.TypeName = kind
			items = append(items, item)
		}
	}

	sortByLastUpdated(items)

	return items, nil
}

// sortByLastUpdated orders items newest first, comparing actual timestamps.
// Items without a timestamp sink to the end.
func sortByLastUpdated(items []*ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].lastUpdatedAt.After(items[j].lastUpdatedAt)
	})
}

// GetDocument returns the detail projection for a document id. With a
// type name it reads that collection directly; without one it probes all
// collections in nesting order.
func (s *Service) GetDocument(ctx context.Context, docID, typeName string) (*DetailItem, error) {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, docID)
	}

	typeNorm := strings.ToLower(strings.TrimSpace(typeName))

	if typeNorm != "" {
		if !entity.Valid(typeNorm) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidType, typeName)
		}
		doc, err := s.findByID(ctx, typeNorm, oid)
		if err != nil {
			return nil, err
		}
		return s.BuildDetailItem(ctx, doc, typeNorm), nil
	}

	for _, kind := range entity.Kinds() {
		doc, err := s.findByID(ctx, kind, oid)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return s.BuildDetailItem(ctx, doc, kind), nil
	}

	return nil, ErrNotFound
}

func (s *Service) findByID(ctx context.Context, kind string, oid primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(entity.Collection(kind)).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return doc, nil
}
