package repositories

import (
	"github.com/lib/pq"
	"github.com/rohits-web03/devfolio/internal/query"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tsQuery = "websearch_to_tsquery('english', ?)"

var sortColumns = map[query.SortField]string{
	query.SortCreatedAt: "created_at",
	query.SortUpdatedAt: "updated_at",
	query.SortTitle:     "title",
	query.SortName:      "name",
}

func paginate(p query.Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// textSearch matches the generated search_vector column.
func textSearch(text string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if text == "" {
			return db
		}
		return db.Where("search_vector @@ "+tsQuery, text)
	}
}

// skillFilter uses array overlap for a single required match and an
// intersection count otherwise.
func skillFilter(f query.SkillFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !f.Active() {
			return db
		}
		if f.Min() <= 1 {
			return db.Where("skills && ?", pq.Array(f.Skills))
		}
		return db.Where(
			"cardinality(ARRAY(SELECT unnest(skills) INTERSECT SELECT unnest(?::text[]))) >= ?",
			pq.Array(f.Skills), f.Min(),
		)
	}
}

func orderBy(s query.Sort, text string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.Field == query.SortRelevance && text != "" {
			return db.Order(clause.OrderBy{Expression: clause.Expr{
				SQL:                "ts_rank(search_vector, " + tsQuery + ") DESC, id",
				Vars:               []any{text},
				WithoutParentheses: true,
			}})
		}
		column, ok := sortColumns[s.Field]
		if !ok {
			column = "created_at"
		}
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: s.Desc}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
}

func withUpdatedAt(columns []string) []string {
	out := make([]string, 0, len(columns)+1)
	return append(append(out, columns...), "updated_at")
}
