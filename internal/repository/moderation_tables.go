package repository

import (
	"fmt"

	"github.com/noah-isme/integrity-rating-api/internal/models"
)

// entityTable describes where a moderated kind lives and how the queue renders it.
type entityTable struct {
	table        string
	alias        string
	targetColumn string
	targetTable  string
	submitter    string
	displayExpr  string
	contentExpr  string
	searchExprs  []string
	stampsReview bool
}

var entityTables = map[models.EntityType]entityTable{
	models.EntityNominee: {
		table:       "nominees",
		alias:       "n",
		submitter:   "n.submitted_by",
		displayExpr: "n.name",
		contentExpr: "n.evidence",
		searchExprs: []string{"n.name"},
	},
	models.EntityInstitution: {
		table:       "institutions",
		alias:       "i",
		submitter:   "i.submitted_by",
		displayExpr: "i.name",
		contentExpr: "NULL::text",
		searchExprs: []string{"i.name"},
	},
	models.EntityRating: {
		table:        "nominee_ratings",
		alias:        "r",
		targetColumn: "nominee_id",
		targetTable:  "nominees",
		submitter:    "r.user_id",
		displayExpr:  "t.name",
		contentExpr:  "r.evidence",
		searchExprs:  []string{"t.name"},
		stampsReview: true,
	},
	models.EntityInstitutionRating: {
		table:        "institution_ratings",
		alias:        "r",
		targetColumn: "institution_id",
		targetTable:  "institutions",
		submitter:    "r.user_id",
		displayExpr:  "t.name",
		contentExpr:  "r.evidence",
		searchExprs:  []string{"t.name"},
		stampsReview: true,
	},
	models.EntityComment: {
		table:        "comments",
		alias:        "c",
		targetColumn: "nominee_id",
		targetTable:  "nominees",
		submitter:    "c.user_id",
		displayExpr:  "t.name",
		contentExpr:  "c.content",
		searchExprs:  []string{"t.name", "c.content"},
	},
	models.EntityInstitutionComment: {
		table:        "institution_comments",
		alias:        "c",
		targetColumn: "institution_id",
		targetTable:  "institutions",
		submitter:    "c.user_id",
		displayExpr:  "t.name",
		contentExpr:  "c.content",
		searchExprs:  []string{"t.name", "c.content"},
	},
}

func tableFor(entity models.EntityType) (entityTable, error) {
	t, ok := entityTables[entity]
	if !ok {
		return entityTable{}, fmt.Errorf("unsupported entity type %q", entity)
	}
	return t, nil
}

// ratingTables resolves the rating, category and target tables of a kind.
type ratingTables struct {
	ratings      string
	categories   string
	target       string
	targetColumn string
}

func ratingTablesFor(kind models.RatingKind) (ratingTables, error) {
	switch kind {
	case models.RatingKindNominee:
		return ratingTables{ratings: "nominee_ratings", categories: "nominee_rating_categories", target: "nominees", targetColumn: "nominee_id"}, nil
	case models.RatingKindInstitution:
		return ratingTables{ratings: "institution_ratings", categories: "institution_rating_categories", target: "institutions", targetColumn: "institution_id"}, nil
	}
	return ratingTables{}, fmt.Errorf("unsupported rating kind %q", kind)
}
