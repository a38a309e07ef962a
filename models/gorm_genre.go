package models

// Genre represents a movie genre in the database using GORM.
// It corresponds to the 'genres' table. Names are unique and matched exactly.
type Genre struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"not null;uniqueIndex"`
}

// TableName explicitly sets the table name for GORM.
func (Genre) TableName() string {
	return "genres"
}

// MovieGenre is the join table between movies and genres.
type MovieGenre struct {
	MovieID uint   `gorm:"primaryKey"`
	GenreID uint   `gorm:"primaryKey"`
	Genre   *Genre `gorm:"foreignKey:GenreID"`
}

// TableName overrides the table name for MovieGenre to be `movie_genres`
func (MovieGenre) TableName() string {
	return "movie_genres"
}
