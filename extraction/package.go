package extraction

import (
	"github.com/c360studio/codeontology/graph"
	"github.com/c360studio/codeontology/model"
	"github.com/c360studio/codeontology/vocabulary/woc"
)

// Package is a Java package. Declared packages list their types; packages
// only known from binary names do not.
type Package struct {
	base
	name string
	decl *model.Package
}

func (p *Package) Kind() Kind { return KindPackage }

func (p *Package) Provenance() Provenance {
	if p.decl != nil {
		return DeclarationBacked
	}
	return ReferenceOnly
}

func (p *Package) Name() string { return p.name }

func (p *Package) Comment() string {
	if p.decl == nil {
		return ""
	}
	return parseDoc(p.decl.Comment).description
}

func (p *Package) Extract(l *graph.Logger) {
	f := p.f
	f.tagType(l, p, woc.ClassPackage)
	f.tagName(l, p)
	f.tagComment(l, p)
	if p.decl == nil {
		return
	}
	for _, d := range p.decl.Types {
		f.link(l, p, woc.IsPackageOf, f.WrapDeclaration(d))
	}
}

// Project is the analysed project, the root of the structural pass.
type Project struct {
	base
	name         string
	dependencies []string
}

func (p *Project) Kind() Kind             { return KindProject }
func (p *Project) Provenance() Provenance { return DeclarationBacked }
func (p *Project) Name() string           { return p.name }

func (p *Project) Extract(l *graph.Logger) {
	f := p.f
	f.tagType(l, p, woc.ClassProject)
	f.tagName(l, p)
	for _, pkg := range f.program.Packages {
		if e := f.WrapPackage(pkg); e != nil {
			l.AddTriple(e, woc.HasProject, p)
		}
	}
	for _, dep := range p.dependencies {
		f.link(l, p, woc.HasDependency, f.WrapJarFile(dep))
	}
}

// JarFile is a binary dependency archive.
type JarFile struct {
	base
	name string
	path string
}

func (j *JarFile) Kind() Kind             { return KindJarFile }
func (j *JarFile) Provenance() Provenance { return ReferenceOnly }
func (j *JarFile) Name() string           { return j.name }

// Path returns the archive path the entity was created from.
func (j *JarFile) Path() string { return j.path }

func (j *JarFile) Extract(l *graph.Logger) {
	j.f.tagType(l, j, woc.ClassJarFile)
	j.f.tagName(l, j)
}
