package workspace

import (
	"slices"

	"mend/internal/source"
)

type Project struct {
	info *ProjectInfo
	docs []*Document
}

func NewProject(info *ProjectInfo, docs ...*Document) *Project {
	return &Project{info: info, docs: slices.Clone(docs)}
}

func (p *Project) Info() *ProjectInfo { return p.info }
func (p *Project) Name() string       { return p.info.Name }

// Documents returns documents in load order. Do not modify the slice.
func (p *Project) Documents() []*Document { return p.docs }

func (p *Project) Document(id DocumentID) (*Document, bool) {
	for _, d := range p.docs {
		if d.id == id {
			return d, true
		}
	}
	return nil, false
}

type Solution struct {
	fs       *source.FileSet
	projects []*Project
}

func NewSolution(fs *source.FileSet, projects ...*Project) *Solution {
	return &Solution{fs: fs, projects: slices.Clone(projects)}
}

func (s *Solution) FileSet() *source.FileSet { return s.fs }
func (s *Solution) Projects() []*Project     { return s.projects }

func (s *Solution) Project(name string) (*Project, bool) {
	for _, p := range s.projects {
		if p.info.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ProjectOf returns the project a document belongs to.
func (s *Solution) ProjectOf(doc *Document) (*Project, bool) {
	for _, p := range s.projects {
		if p.info == doc.project {
			return p, true
		}
	}
	return nil, false
}

// Documents returns every document of every project, in order.
func (s *Solution) Documents() []*Document {
	var out []*Document
	for _, p := range s.projects {
		out = append(out, p.docs...)
	}
	return out
}

// Document looks up a document by id across projects.
func (s *Solution) Document(id DocumentID) (*Document, bool) {
	for _, p := range s.projects {
		if d, ok := p.Document(id); ok {
			return d, true
		}
	}
	return nil, false
}

// WithDocument returns a solution where the document with doc's id in doc's
// project is replaced by doc. Unknown documents leave the solution as is.
func (s *Solution) WithDocument(doc *Document) *Solution {
	for pi, p := range s.projects {
		if p.info != doc.project {
			continue
		}
		for di, d := range p.docs {
			if d.id != doc.id {
				continue
			}
			if d == doc {
				return s
			}
			np := &Project{info: p.info, docs: slices.Clone(p.docs)}
			np.docs[di] = doc
			ns := &Solution{fs: s.fs, projects: slices.Clone(s.projects)}
			ns.projects[pi] = np
			return ns
		}
	}
	return s
}

// WithDocuments applies WithDocument for every doc.
func (s *Solution) WithDocuments(docs ...*Document) *Solution {
	out := s
	for _, d := range docs {
		out = out.WithDocument(d)
	}
	return out
}

// ChangedDocuments lists documents of s whose text differs from the same id
// in base. A new version with identical text is not a change.
func (s *Solution) ChangedDocuments(base *Solution) []*Document {
	var out []*Document
	for _, d := range s.Documents() {
		old, ok := base.Document(d.id)
		if !ok || (old.fileID != d.fileID && old.Text() != d.Text()) {
			out = append(out, d)
		}
	}
	return out
}
