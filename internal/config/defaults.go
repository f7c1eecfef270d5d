package config

import (
	"time"

	"github.com/spf13/viper"
)

// gtnhMaven hosts the forge patches jar and GTNH's own artifacts.
const gtnhMaven = "http://jenkins.usrv.eu:8081/nexus/content/groups/public/"

// DefaultMavens is the ordered fallback list probed when a library's declared
// URL is missing or broken.
var DefaultMavens = []string{
	"https://maven.minecraftforge.net/",
	"https://oss.sonatype.org/content/repositories/snapshots/",
	gtnhMaven,
	"https://libraries.minecraft.net/",
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("location", "../lwjgl3ify/")
	v.SetDefault("use_dirty_source", false)
	v.SetDefault("template", "base.json")
	v.SetDefault("libraries_dir", "libraries")
	v.SetDefault("out_dir", "out")
	v.SetDefault("patch_dir", "prism-libraries/patches")
	v.SetDefault("excluded_patches", []string{"me.eigenraven.lwjgl3ify.forgepatches.json"})
	v.SetDefault("mavens", DefaultMavens)
	v.SetDefault("id_prefix", "1.7.10")
	v.SetDefault("project", "lwjgl3ify")
	v.SetDefault("forge_patches.repository", gtnhMaven)
	v.SetDefault("forge_patches.group", "com.github.GTNewHorizons")
	v.SetDefault("forge_patches.artifact", "lwjgl3ify")
	v.SetDefault("forge_patches.classifier", "forgePatches")
	v.SetDefault("http_timeout", 5*time.Minute)
}
