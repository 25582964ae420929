package models

// Client is read-only reference data loaded from the record store. It is
// never written back by this tool.
type Client struct {
	Number    int
	FirstName string
	LastName  string
	Email     string
}

// FullName returns the client's display name.
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Directory indexes clients by client number. It is built once per load and
// not mutated afterwards. Duplicate numbers in the source data overwrite on
// load, last write wins.
type Directory map[int]Client

// Get returns the client for the given number.
func (d Directory) Get(number int) (Client, bool) {
	c, ok := d[number]
	return c, ok
}

// Exists reports whether a client with the given number was loaded.
func (d Directory) Exists(number int) bool {
	_, ok := d[number]
	return ok
}
