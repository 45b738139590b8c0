package xml2texi

import (
	"strings"
)

// Author is an <author> element of the front matter.
type Author struct {
	Initials     string
	Surname      string
	Fullname     string
	Organization string
	Role         string
	Address      Address
}

type Address struct {
	Phone  string
	Email  string
	URI    string
	Postal Postal
}

type Postal struct {
	Street     []string
	City       string
	Region     string
	Code       string
	Country    string
	PostalLine []string
}

// Lines returns the postal address as display lines.
func (p Postal) Lines() []string {
	if len(p.PostalLine) > 0 {
		return p.PostalLine
	}
	lines := append([]string(nil), p.Street...)
	city := strings.TrimSpace(strings.Join(nonEmpty(p.City, p.Region, p.Code), " "))
	if city != "" {
		lines = append(lines, city)
	}
	if p.Country != "" {
		lines = append(lines, p.Country)
	}
	return lines
}

// Name returns the name to show for an author.
func (a Author) Name() string {
	name := a.Fullname
	if name == "" {
		name = strings.TrimSpace(a.Initials + " " + a.Surname)
	}
	if name == "" {
		name = a.Organization
	}
	if a.Role == "editor" && name != "" {
		name += ", Ed."
	}
	return name
}

// SeriesInfo is a <seriesInfo> element.
type SeriesInfo struct {
	Name   string
	Value  string
	Status string
}

// Front holds the metadata of a document or reference.
type Front struct {
	Title  string
	Abbrev string

	DocName  string
	Number   string
	Category string
	Ipr      string

	Obsoletes string
	Updates   string

	Date       string
	Area       []string
	Workgroup  []string
	Keyword    []string
	Author     []Author
	SeriesInfo []SeriesInfo
}

// ReadFront extracts the front matter of the tree.
func ReadFront(t *Tree) Front {
	root := t.Root()
	f := readFront(root.Child("front"))
	f.DocName = root.Get("docName")
	f.Number = root.Get("number")
	f.Category = root.Get("category")
	f.Ipr = root.Get("ipr")
	f.Obsoletes = root.Get("obsoletes")
	f.Updates = root.Get("updates")
	// seriesInfo may also sit directly under the root.
	for _, s := range root.Children("seriesInfo") {
		f.SeriesInfo = append(f.SeriesInfo, readSeriesInfo(s))
	}
	return f
}

func readFront(front *Node) Front {
	var f Front
	if front == nil {
		return f
	}
	if title := front.Child("title"); title != nil {
		f.Title = collapse(title.Text())
		f.Abbrev = title.Get("abbrev")
	}
	for _, s := range front.Children("seriesInfo") {
		f.SeriesInfo = append(f.SeriesInfo, readSeriesInfo(s))
	}
	for _, a := range front.Children("author") {
		f.Author = append(f.Author, readAuthor(a))
	}
	f.Date = formatDate(front.Child("date"))
	for _, a := range front.Children("area") {
		f.Area = append(f.Area, collapse(a.Text()))
	}
	for _, w := range front.Children("workgroup") {
		f.Workgroup = append(f.Workgroup, collapse(w.Text()))
	}
	for _, k := range front.Children("keyword") {
		f.Keyword = append(f.Keyword, collapse(k.Text()))
	}
	return f
}

func readSeriesInfo(n *Node) SeriesInfo {
	return SeriesInfo{Name: n.Get("name"), Value: n.Get("value"), Status: n.Get("status")}
}

func readAuthor(n *Node) Author {
	a := Author{
		Initials: n.Get("initials"),
		Surname:  n.Get("surname"),
		Fullname: n.Get("fullname"),
		Role:     n.Get("role"),
	}
	if org := n.Child("organization"); org != nil {
		a.Organization = collapse(org.Text())
	}
	addr := n.Child("address")
	if addr == nil {
		return a
	}
	a.Address.Phone = collapse(addr.Child("phone").Text())
	a.Address.Email = collapse(addr.Child("email").Text())
	a.Address.URI = collapse(addr.Child("uri").Text())
	if postal := addr.Child("postal"); postal != nil {
		for _, s := range postal.Children("street") {
			a.Address.Postal.Street = append(a.Address.Postal.Street, collapse(s.Text()))
		}
		for _, s := range postal.Children("postalLine") {
			a.Address.Postal.PostalLine = append(a.Address.Postal.PostalLine, collapse(s.Text()))
		}
		a.Address.Postal.City = collapse(postal.Child("city").Text())
		a.Address.Postal.Region = collapse(postal.Child("region").Text())
		a.Address.Postal.Code = collapse(postal.Child("code").Text())
		a.Address.Postal.Country = collapse(postal.Child("country").Text())
	}
	return a
}

func formatDate(date *Node) string {
	if date == nil {
		return ""
	}
	return strings.Join(nonEmpty(date.Get("day"), date.Get("month"), date.Get("year")), " ")
}

// collapse trims s and folds runs of white space into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmpty(s ...string) []string {
	var out []string
	for _, v := range s {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
