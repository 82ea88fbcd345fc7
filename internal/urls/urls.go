package urls

// Documentation URLs for guides and troubleshooting.
// All URLs point to the documentation site at https://muurk.github.io/techguide/

// Project is the source repository, shown in the UI header.
const Project = "github.com/muurk/techguide"

// ServiceSetup describes the lookup API a manual service must expose
// and how to advertise it over mDNS.
const ServiceSetup = "https://muurk.github.io/techguide/service/"

// Troubleshooting covers connection, timeout and export problems.
const Troubleshooting = "https://muurk.github.io/techguide/troubleshooting/"

// Configuration documents every key of the settings file.
const Configuration = "https://muurk.github.io/techguide/configuration/"
