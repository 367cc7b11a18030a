package analyzer

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type dotnetExtractor struct{}

func (dotnetExtractor) Name() string { return "msbuild" }

type msbuildProject struct {
	PropertyGroups []struct {
		PackageID     string `xml:"PackageId"`
		AssemblyName  string `xml:"AssemblyName"`
		Version       string `xml:"Version"`
		Description   string `xml:"Description"`
		Authors       string `xml:"Authors"`
		License       string `xml:"PackageLicenseExpression"`
		RepositoryURL string `xml:"RepositoryUrl"`
		IsTestProject string `xml:"IsTestProject"`
	} `xml:"PropertyGroup"`
	ItemGroups []struct {
		PackageReferences []struct {
			Include       string `xml:"Include,attr"`
			PrivateAssets string `xml:"PrivateAssets,attr"`
		} `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

func (dotnetExtractor) Extract(_ context.Context, root string, m *Metadata) error {
	projPath := firstMatch(root, "*.csproj", "*.fsproj", "*.vbproj")
	if projPath == "" {
		return nil
	}
	// #nosec G304 -- projPath is a root-level project file of the scanned repository
	data, err := os.ReadFile(projPath)
	if err != nil {
		return err
	}
	var proj msbuildProject
	if err := xml.Unmarshal(data, &proj); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(projPath), err)
	}

	var packageID, assembly string
	testProject := false
	for _, pg := range proj.PropertyGroups {
		packageID = firstNonEmpty(packageID, pg.PackageID)
		assembly = firstNonEmpty(assembly, pg.AssemblyName)
		m.Set(FieldVersion, strings.TrimSpace(pg.Version), SourceDescriptor)
		m.Set(FieldDescription, collapseSpace(pg.Description), SourceDescriptor)
		if authors := strings.TrimSpace(pg.Authors); authors != "" {
			first, _, _ := strings.Cut(authors, ";")
			m.Set(FieldAuthor, strings.TrimSpace(first), SourceDescriptor)
		}
		m.Set(FieldLicense, strings.TrimSpace(pg.License), SourceDescriptor)
		setRepo(m, pg.RepositoryURL, SourceDescriptor)
		testProject = testProject || strings.EqualFold(strings.TrimSpace(pg.IsTestProject), "true")
	}
	base := filepath.Base(projPath)
	name := firstNonEmpty(packageID, assembly, strings.TrimSuffix(base, filepath.Ext(base)))
	m.Set(FieldProjectName, name, SourceDescriptor)

	var deps, dev []string
	for _, ig := range proj.ItemGroups {
		for _, ref := range ig.PackageReferences {
			if ref.Include == "" {
				continue
			}
			if testProject || strings.EqualFold(ref.PrivateAssets, "all") {
				dev = append(dev, ref.Include)
			} else {
				deps = append(deps, ref.Include)
			}
		}
	}
	m.SetDependencies(base, deps, dev)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
