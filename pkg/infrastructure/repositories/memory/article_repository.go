package memory

import (
	"fmt"

	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/domain/repositories"
)

// ArticleRepository provides in-memory article storage in load order. Every
// row is kept; lookups by id return the first row carrying it.
type ArticleRepository struct {
	articles    []entities.ArticleRecord
	articlesMap map[entities.ArticleID]int
	duplicates  []entities.ArticleID
	repeated    map[entities.ArticleID]bool
}

// NewArticleRepository creates a new in-memory article repository
func NewArticleRepository(expectedArticles int) *ArticleRepository {
	return &ArticleRepository{
		articles:    make([]entities.ArticleRecord, 0, expectedArticles),
		articlesMap: make(map[entities.ArticleID]int, expectedArticles),
		duplicates:  make([]entities.ArticleID, 0),
		repeated:    make(map[entities.ArticleID]bool),
	}
}

// Verify interface compliance
var _ repositories.ArticleRepository = (*ArticleRepository)(nil)

// LoadArticles loads articles into the repository
func (r *ArticleRepository) LoadArticles(articles []*entities.ArticleRecord) error {
	for _, article := range articles {
		if err := r.SaveArticle(article); err != nil {
			return err
		}
	}
	return nil
}

// SaveArticle adds an article to the repository
func (r *ArticleRepository) SaveArticle(article *entities.ArticleRecord) error {
	if article == nil {
		return fmt.Errorf("article cannot be nil")
	}
	if _, exists := r.articlesMap[article.ID]; !exists {
		r.articlesMap[article.ID] = len(r.articles)
	} else if !r.repeated[article.ID] {
		r.repeated[article.ID] = true
		r.duplicates = append(r.duplicates, article.ID)
	}
	r.articles = append(r.articles, *article)
	return nil
}

// Duplicates returns the ids that appear on more than one row, in order of first repeat
func (r *ArticleRepository) Duplicates() []entities.ArticleID {
	return append([]entities.ArticleID(nil), r.duplicates...)
}

// GetArticle returns the article with the given id
func (r *ArticleRepository) GetArticle(id entities.ArticleID) (*entities.ArticleRecord, error) {
	index, exists := r.articlesMap[id]
	if !exists {
		return nil, fmt.Errorf("article not found: %s", id)
	}
	return &r.articles[index], nil
}

// GetAllArticles returns all articles in load order
func (r *ArticleRepository) GetAllArticles() ([]*entities.ArticleRecord, error) {
	articles := make([]*entities.ArticleRecord, 0, len(r.articles))
	for i := range r.articles {
		articles = append(articles, &r.articles[i])
	}
	return articles, nil
}

// Count returns the number of stored articles
func (r *ArticleRepository) Count() int {
	return len(r.articles)
}
