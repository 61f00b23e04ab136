package models

// ArticleTypeConfig is one article type with the keywords that identify it.
type ArticleTypeConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// ArticleTypesConfig is the structure of the article types YAML file.
type ArticleTypesConfig struct {
	ArticleTypes []ArticleTypeConfig `yaml:"article_types"`
}

// LabelsConfig is the structure of the label catalog YAML file: candidate
// labels per field, tried in order by the generic extractor.
type LabelsConfig struct {
	Labels map[string][]string `yaml:"labels"`
}
