package paths

import (
	"path/filepath"

	"github.com/quantmind-br/vcfind/internal/helpers"
)

const (
	// DefaultProgramFilesX86 é usado quando nenhuma outra fonte informa a pasta.
	DefaultProgramFilesX86 = `C:\Program Files (x86)`

	// LegacyEnvVar aponta para Common7\Tools de uma instalação do VS2015.
	LegacyEnvVar = "VS140COMNTOOLS"
)

// Resolver centraliza os caminhos conhecidos de instalação do Visual Studio.
type Resolver struct {
	programFilesX86 string
	vswhere         string
}

// NewResolver cria um Resolver. Um vswhere vazio é derivado de programFilesX86.
func NewResolver(programFilesX86, vswhere string) *Resolver {
	if programFilesX86 == "" {
		programFilesX86 = DefaultProgramFilesX86
	}
	return &Resolver{
		programFilesX86: programFilesX86,
		vswhere:         vswhere,
	}
}

// ProgramFilesX86 retorna a pasta Program Files de 32 bits.
func (r *Resolver) ProgramFilesX86() string {
	return r.programFilesX86
}

// VSWherePath retorna <ProgramFiles(x86)>\Microsoft Visual Studio\Installer\vswhere.exe.
func (r *Resolver) VSWherePath() string {
	if r.vswhere != "" {
		return r.vswhere
	}
	return filepath.Join(r.programFilesX86, "Microsoft Visual Studio", "Installer", "vswhere.exe")
}

// LegacyRoot retorna a raiz padrão do VS2015 (<ProgramFiles(x86)>\Microsoft Visual Studio 14.0).
func (r *Resolver) LegacyRoot() string {
	return filepath.Join(r.programFilesX86, "Microsoft Visual Studio 14.0")
}

// DetectProgramFilesX86 descobre a pasta Program Files de 32 bits do host.
// No Windows consulta as known folders; nos demais sistemas usa o ambiente.
func DetectProgramFilesX86(env helpers.Environment) string {
	if dir := knownProgramFilesX86(); dir != "" {
		return dir
	}
	for _, key := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if v, ok := env.LookupEnv(key); ok && v != "" {
			return v
		}
	}
	return DefaultProgramFilesX86
}
