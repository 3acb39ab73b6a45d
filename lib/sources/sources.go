// Package sources implements one adapter per supported repository and wires
// them into a resolver. Each adapter owns its url scheme, its response
// parsing and its status vocabulary; everything else lives in the shared
// resolve contract.
package sources

import (
	"repoaccess-backend/lib/resolve"
)

const (
	SourcePDB          resolve.Source = "pdb"
	SourceGEO          resolve.Source = "geo"
	SourceMassIVE      resolve.Source = "massive"
	SourceBioProject   resolve.Source = "bioproject"
	SourceArrayExpress resolve.Source = "arrayexpress"
	SourceEMDB         resolve.Source = "emdb"
	SourceENCODE       resolve.Source = "encode"
	SourceGWAS         resolve.Source = "gwas"
	SourceOSF          resolve.Source = "osf"
	SourceZenodo       resolve.Source = "zenodo"
	SourcePRIDE        resolve.Source = "pride"
	SourceMetaboLights resolve.Source = "metabolights"
	SourceFigshare     resolve.Source = "figshare"
	SourceDryad        resolve.Source = "dryad"
	SourceSRA          resolve.Source = "sra"
)

// DefaultResolver registers every adapter against one shared http client.
func DefaultResolver() *resolve.Resolver {
	client := NewClient()

	r := resolve.NewResolver()
	r.Register(SourcePDB, NewPDB(client))
	r.Register(SourceGEO, NewGEO(client))
	r.Register(SourceMassIVE, NewMassIVE(client))
	r.Register(SourceBioProject, NewBioProject(client))
	r.Register(SourceArrayExpress, NewArrayExpress(client))
	r.Register(SourceEMDB, NewEMDB(client))
	r.Register(SourceENCODE, NewENCODE(client))
	r.Register(SourceGWAS, NewGWAS(client))
	r.Register(SourceOSF, NewOSF(client))
	r.Register(SourceZenodo, NewZenodo(client))
	r.Register(SourcePRIDE, NewPRIDE(client))
	r.Register(SourceMetaboLights, NewMetaboLights(client))
	r.Register(SourceFigshare, NewFigshare(client))
	r.Register(SourceDryad, NewDryad(client))
	r.Register(SourceSRA, NewSRA(client))
	return r
}
