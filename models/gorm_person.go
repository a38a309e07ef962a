package models

// Person represents someone involved in making a movie, using GORM.
// It corresponds to the 'people' table.
type Person struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	FirstName string `gorm:"not null;uniqueIndex:idx_people_name"`
	LastName  string `gorm:"not null;uniqueIndex:idx_people_name"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// PersonMovieRole records that a person held a role on a movie.
// The composite key allows several roles per person and movie but never the same one twice.
type PersonMovieRole struct {
	PersonID uint    `gorm:"primaryKey"`
	MovieID  uint    `gorm:"primaryKey"`
	RoleID   uint    `gorm:"primaryKey"`
	Person   *Person `gorm:"foreignKey:PersonID"`
	Role     *Role   `gorm:"foreignKey:RoleID"`
}

// TableName overrides the table name for PersonMovieRole to be `person_movie_roles`
func (PersonMovieRole) TableName() string {
	return "person_movie_roles"
}
