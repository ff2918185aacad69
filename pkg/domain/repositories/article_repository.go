package repositories

import "github.com/vsinha/palletplan/pkg/domain/entities"

// ArticleRepository provides access to article master and stock data
type ArticleRepository interface {
	GetArticle(id entities.ArticleID) (*entities.ArticleRecord, error)
	// GetAllArticles returns articles in load order
	GetAllArticles() ([]*entities.ArticleRecord, error)
	LoadArticles(articles []*entities.ArticleRecord) error
	Count() int
}
