package model

// Movie is a row of the `movies` table.  Reviews is filled by the
// repository from the `reviews` table and is ordered by review id.
//
// Fields:
//  ID     – primary key, assigned by the store.
//  Title  – at most 200 characters.
//  Year   – release year.
//  Genre  – single primary genre, at most 50 characters.
//  Poster – poster image URL, at most 500 characters.
//  Plot   – free text.
type Movie struct {
	ID      int64    `db:"id"`
	Title   string   `db:"title"`
	Year    int      `db:"year"`
	Genre   string   `db:"genre"`
	Poster  string   `db:"poster"`
	Plot    string   `db:"plot"`
	Reviews []Review `db:"-"`
}
