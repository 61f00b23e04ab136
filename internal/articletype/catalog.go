package articletype

import "fjacquet/techpack-csv/internal/models"

// CatalogLoader provides the article-type keyword table.
type CatalogLoader interface {
	LoadArticleTypes() ([]models.ArticleTypeConfig, error)
}

// builtinCatalog is used when no catalog file is configured. More specific
// types come first: "t-shirt" must win over "shirt".
var builtinCatalog = []models.ArticleTypeConfig{
	{Name: "Hoodie", Keywords: []string{"hoodie", "hoody", "hooded sweatshirt", "zip hood"}},
	{Name: "Sweatshirt", Keywords: []string{"sweatshirt", "crewneck", "crew neck sweat", "sweater"}},
	{Name: "T-Shirt", Keywords: []string{"t-shirt", "tshirt", "tee"}},
	{Name: "Polo", Keywords: []string{"polo"}},
	{Name: "Tank Top", Keywords: []string{"tank top", "singlet", "vest top"}},
	{Name: "Shirt", Keywords: []string{"shirt", "blouse", "overshirt"}},
	{Name: "Jacket", Keywords: []string{"jacket", "bomber", "windbreaker", "anorak", "parka"}},
	{Name: "Coat", Keywords: []string{"coat", "trench"}},
	{Name: "Knitwear", Keywords: []string{"cardigan", "jumper", "knit"}},
	{Name: "Jeans", Keywords: []string{"jeans", "denim pant"}},
	{Name: "Trousers", Keywords: []string{"trousers", "trouser", "pants", "pant", "chino", "jogger", "sweatpants"}},
	{Name: "Shorts", Keywords: []string{"shorts", "short"}},
	{Name: "Skirt", Keywords: []string{"skirt"}},
	{Name: "Dress", Keywords: []string{"dress", "gown"}},
	{Name: "Jumpsuit", Keywords: []string{"jumpsuit", "overall", "romper"}},
	{Name: "Cap", Keywords: []string{"cap", "beanie", "hat"}},
	{Name: "Bag", Keywords: []string{"bag", "tote", "backpack"}},
	{Name: "Socks", Keywords: []string{"socks", "sock"}},
}

// BuiltinCatalog returns a copy of the built-in article types.
func BuiltinCatalog() []models.ArticleTypeConfig {
	out := make([]models.ArticleTypeConfig, len(builtinCatalog))
	for i, at := range builtinCatalog {
		out[i] = models.ArticleTypeConfig{Name: at.Name, Keywords: append([]string(nil), at.Keywords...)}
	}
	return out
}

// Names returns the article type names of catalog in order.
func Names(catalog []models.ArticleTypeConfig) []string {
	names := make([]string, 0, len(catalog))
	for _, at := range catalog {
		names = append(names, at.Name)
	}
	return names
}
